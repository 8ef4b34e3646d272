package overdue

import (
	"strings"
	"time"

	"github.com/spec-kit/coordination-audit/internal/domain"
	"github.com/spec-kit/coordination-audit/internal/tabular"
)

// MissingID is used when a row has no identifier.
const MissingID = "N/A"

// Columns names the columns of the coordination export. An empty ID selects the first column.
type Columns struct {
	ID         string `yaml:"id" json:"id"`
	Step       string `yaml:"step" json:"step"`
	Workflow   string `yaml:"workflow" json:"workflow"`
	Lifecycle  string `yaml:"lifecycle" json:"lifecycle"`
	CreatedAt  string `yaml:"created_at" json:"created_at"`
	Checked    string `yaml:"checked" json:"checked"`
	NotChecked string `yaml:"not_checked" json:"not_checked"`
}

// DefaultColumns matches the headers of the document management system export.
func DefaultColumns() Columns {
	return Columns{
		Step:       "Шаг",
		Workflow:   "Рабочий процесс",
		Lifecycle:  "Жизненный цикл",
		CreatedAt:  "Дата и время создания согласования",
		Checked:    "Проверили на текущем шаге",
		NotChecked: "Не проверили на текущем шаге",
	}
}

// WithDefaults fills every unset column name except ID from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	def := DefaultColumns()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&c.Step, def.Step)
	fill(&c.Workflow, def.Workflow)
	fill(&c.Lifecycle, def.Lifecycle)
	fill(&c.CreatedAt, def.CreatedAt)
	fill(&c.Checked, def.Checked)
	fill(&c.NotChecked, def.NotChecked)
	return c
}

// RecordsFromTable maps table rows to coordination records. Without the step,
// workflow and not-checked columns the table yields nothing.
func RecordsFromTable(table *tabular.Table, cols Columns) []domain.CoordinationRecord {
	cols = cols.WithDefaults()
	for _, required := range []string{cols.Step, cols.Workflow, cols.NotChecked} {
		if !table.HasColumn(required) {
			return nil
		}
	}

	records := make([]domain.CoordinationRecord, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		get := func(col string) string {
			v, _ := row.Get(col)
			return strings.TrimSpace(v)
		}

		id := row.At(0)
		if cols.ID != "" {
			id, _ = row.Get(cols.ID)
		}
		if id = strings.TrimSpace(id); id == "" {
			id = MissingID
		}

		records = append(records, domain.CoordinationRecord{
			ID:                  id,
			StepText:            get(cols.Step),
			WorkflowText:        get(cols.Workflow),
			LifecycleLog:        get(cols.Lifecycle),
			CreatedAt:           get(cols.CreatedAt),
			CheckedApprovers:    get(cols.Checked),
			NotCheckedApprovers: get(cols.NotChecked),
		})
	}
	return records
}

// RunTable audits the rows of a coordination export.
func (a *Aggregator) RunTable(table *tabular.Table, cols Columns, people []domain.PersonRecord, reference time.Time) Result {
	return a.Run(RecordsFromTable(table, cols), people, reference)
}
