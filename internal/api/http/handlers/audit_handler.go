package handlers

import (
	"bytes"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coordination-audit/internal/api/dto"
	"github.com/spec-kit/coordination-audit/internal/service"
	"github.com/spec-kit/coordination-audit/internal/tabular"
	apperrors "github.com/spec-kit/coordination-audit/pkg/util/errorutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AuditHandler runs overdue audits over uploaded coordination exports.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{service: auditService}
}

// Run POST /audits.
func (h *AuditHandler) Run(c *fiber.Ctx) error {
	format := strings.ToLower(strings.TrimSpace(c.FormValue("format", dto.AuditFormatJSON)))
	switch format {
	case dto.AuditFormatJSON, dto.AuditFormatXLSX, dto.AuditFormatEmails:
	default:
		return apperrors.NewValidationError("format must be json, xlsx or emails", map[string]any{"format": format})
	}

	reference, err := h.service.ReferenceDate(c.FormValue("reference_date"))
	if err != nil {
		return err
	}

	filename, file, err := uploadedFile(c)
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := h.service.Run(c.UserContext(), filename, file, reference)
	if err != nil {
		return err
	}

	switch format {
	case dto.AuditFormatXLSX:
		var buf bytes.Buffer
		if err := tabular.WriteDetailsXLSX(&buf, res.Details); err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Attachment("coordination_details.xlsx")
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(buf.Bytes())
	case dto.AuditFormatEmails:
		var buf bytes.Buffer
		if err := tabular.WriteEmails(&buf, res.UniqueEmails()); err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Attachment("overdue_emails.txt")
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Send(buf.Bytes())
	default:
		return c.JSON(fiber.Map{"data": dto.NewAuditResponse(reference.Format(service.ReferenceDateLayout), res)})
	}
}

func uploadedFile(c *fiber.Ctx) (string, multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, apperrors.NewValidationError("file required", nil)
	}
	file, err := header.Open()
	if err != nil {
		return "", nil, apperrors.NewValidationError("unreadable upload", nil)
	}
	return header.Filename, file, nil
}
