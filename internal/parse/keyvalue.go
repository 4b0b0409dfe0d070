package parse

import (
	"regexp"
	"strings"

	"labinventory-backend/internal/extract"
)

var (
	kvAssetTagRe   = regexp.MustCompile(`(?i)Asset(?:\s*Tag)?:\s*([\w-]+)`)
	kvLabCodeRe    = regexp.MustCompile(`(?i)Lab(?:\s*Code)?:\s*([\w-]+)`)
	kvNameRe       = regexp.MustCompile(`(?i)Name:\s*([^,]+)`)
	kvDepartmentRe = regexp.MustCompile(`(?i)Department:\s*([\w-]+)`)
	kvLocationRe   = regexp.MustCompile(`(?i)Location:\s*([^,]+)`)
	kvStatusRe     = regexp.MustCompile(`(?i)Status:\s*(\w+)`)
	kvModelRe      = regexp.MustCompile(`(?i)Model:\s*([^,]+)`)
	kvSerialRe     = regexp.MustCompile(`(?i)Serial(?:\s*Number)?:\s*([^,]+)`)
)

const defaultDepartment = "General"

// KeyValueParser reads one record per line, e.g.
//
//	Lab: CSE01, Name: Networking Lab, Department: CSE
//	Asset Tag: AT001, Lab: CSE01, Status: WORKING
//
// A line carrying an asset tag is an asset; otherwise a line carrying a
// lab code is a lab.
type KeyValueParser struct{}

func (KeyValueParser) Parse(doc *extract.Document) Batch {
	var b Batch
	for _, line := range doc.Lines {
		if tag := submatch(kvAssetTagRe, line); tag != "" {
			lab := submatch(kvLabCodeRe, line)
			if lab == "" {
				continue
			}
			b.Assets = append(b.Assets, AssetCandidate{
				AssetTag:     tag,
				LabCode:      lab,
				Status:       strings.ToUpper(submatch(kvStatusRe, line)),
				ModelName:    submatch(kvModelRe, line),
				SerialNumber: submatch(kvSerialRe, line),
			})
			continue
		}

		code := submatch(kvLabCodeRe, line)
		if code == "" {
			continue
		}
		lab := LabCandidate{
			Code:       code,
			Name:       submatch(kvNameRe, line),
			Department: submatch(kvDepartmentRe, line),
			Location:   submatch(kvLocationRe, line),
		}
		if lab.Name == "" {
			lab.Name = "Lab " + code
		}
		if lab.Department == "" {
			lab.Department = defaultDepartment
		}
		b.Labs = append(b.Labs, lab)
	}
	return b
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
