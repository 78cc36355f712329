package descriptor

import "slices"

// Issue is a soft problem found in a descriptor. Issues never prevent the
// data from being saved or written; the caller decides whether to repair.
type Issue int

const (
	IssueShort              Issue = iota + 1 // fewer bytes than reported
	IssueTruncated                           // input exceeded MaxSize
	IssueUnrecognized                        // neither EDID nor DisplayID
	IssueEDIDHeader                          // header bytes damaged
	IssueEDIDExtensionBlocks                 // invalid extension block declared
	IssueEDIDChecksums                       // base or extension checksum wrong
	IssueDisplayIDChecksums                  // section checksum wrong
)

func (i Issue) String() string {
	switch i {
	case IssueShort:
		return "data is shorter than its reported size"
	case IssueTruncated:
		return "data exceeds 256 bytes and was truncated"
	case IssueUnrecognized:
		return "data is not a valid EDID or DisplayID"
	case IssueEDIDHeader:
		return "EDID header is corrupted"
	case IssueEDIDExtensionBlocks:
		return "EDID extension block is invalid"
	case IssueEDIDChecksums:
		return "EDID checksum is invalid"
	case IssueDisplayIDChecksums:
		return "DisplayID checksum is invalid"
	}
	return "unknown issue"
}

// Fixable reports whether Repair can resolve the issue.
func (i Issue) Fixable() bool {
	switch i {
	case IssueEDIDHeader, IssueEDIDExtensionBlocks, IssueEDIDChecksums, IssueDisplayIDChecksums:
		return true
	}
	return false
}

// Diagnose lists the issues found in the buffer in the order they should
// be presented and repaired.
func (b *Buffer) Diagnose() []Issue {
	var issues []Issue

	if b.Short() {
		issues = append(issues, IssueShort)
	}
	if b.Truncated() {
		issues = append(issues, IssueTruncated)
	}

	switch {
	case b.IsEDID():
		if !b.IsValidEDIDHeader() {
			issues = append(issues, IssueEDIDHeader)
		}
		if !b.IsValidEDIDExtensionBlocks() {
			issues = append(issues, IssueEDIDExtensionBlocks)
		}
		if !b.IsValidEDIDChecksums() {
			issues = append(issues, IssueEDIDChecksums)
		}
	case b.IsDisplayID():
		if !b.IsValidDisplayIDChecksums() {
			issues = append(issues, IssueDisplayIDChecksums)
		}
	default:
		issues = append(issues, IssueUnrecognized)
	}

	return issues
}

// Repair applies the fix for each given issue, header first, then extension
// blocks, then checksums. With no arguments every fixable issue reported
// by Diagnose is repaired.
func (b *Buffer) Repair(issues ...Issue) error {
	if len(issues) == 0 {
		issues = b.Diagnose()
	}

	issues = slices.Clone(issues)
	slices.Sort(issues)

	for _, issue := range slices.Compact(issues) {
		var err error

		switch issue {
		case IssueEDIDHeader:
			err = b.FixEDIDHeader()
		case IssueEDIDExtensionBlocks:
			err = b.FixEDIDExtensionBlocks()
		case IssueEDIDChecksums:
			if !b.IsValidEDIDChecksums() {
				err = b.FixEDIDChecksums()
			}
		case IssueDisplayIDChecksums:
			err = b.FixDisplayIDChecksums()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
