// Package ingest turns free-text "(Name email / Name email)" listings into directory records.
package ingest

import (
	"regexp"
	"strings"
)

var (
	// blockPattern finds "(Name email / Name email ...)" and " - Name email" listings.
	blockPattern  = regexp.MustCompile(`(?:\(| - )([^()]+?\s+[^\s@]+@[^\s/@]+(?:\s*/\s*[^()]+?\s+[^\s@]+@[^\s/@]+)*)`)
	memberPattern = regexp.MustCompile(`([^@]+)\s+([^\s@]+@[^\s@]+)`)
	emailTrailer  = regexp.MustCompile(`[),.;]+$`)
)

// Entry is one person named in a block.
type Entry struct {
	Name  string
	Email string
}

// Block is a group of people listed together; they form one team.
type Block struct {
	Line    string
	Members []Entry
}

// JoinLines splits cell text into lines and glues a line ending in "/" to the one that
// follows it, so a team listing wrapped across cells is read as one line. The slash is
// kept as the member separator.
func JoinLines(cells []string) []string {
	var (
		combined []string
		current  string
	)
	for _, cell := range cells {
		for _, line := range strings.Split(cell, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				if current != "" {
					combined = append(combined, current)
					current = ""
				}
				continue
			}
			switch {
			case current == "":
				current = line
			case strings.HasSuffix(current, "/"):
				current += " " + line
			default:
				combined = append(combined, current)
				current = line
			}
		}
	}
	if current != "" {
		combined = append(combined, current)
	}
	return combined
}

// ParseBlocks extracts every block from the given lines, in order.
func ParseBlocks(lines []string) []Block {
	var blocks []Block
	for _, line := range lines {
		for _, m := range blockPattern.FindAllStringSubmatch(line, -1) {
			text := m[1]
			if !strings.Contains(text, "@") {
				continue
			}
			block := Block{Line: line}
			for _, part := range strings.Split(text, "/") {
				entry, ok := parseMember(strings.TrimSpace(part))
				if ok {
					block.Members = append(block.Members, entry)
				}
			}
			if len(block.Members) > 0 {
				blocks = append(blocks, block)
			}
		}
	}
	return blocks
}

func parseMember(part string) (Entry, bool) {
	m := memberPattern.FindStringSubmatch(part)
	if m == nil {
		return Entry{}, false
	}
	email := strings.TrimSpace(emailTrailer.ReplaceAllString(strings.TrimSpace(m[2]), ""))
	if email == "" {
		return Entry{}, false
	}
	return Entry{Name: strings.TrimSpace(m[1]), Email: email}, true
}
