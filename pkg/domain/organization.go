package domain

import "strings"

// Organization identifies an employer the bot can talk about.
type Organization string

const (
	OrganizationKPMG         Organization = "KPMG"
	OrganizationDeloitte     Organization = "Deloitte"
	OrganizationEY           Organization = "EY"
	OrganizationPWC          Organization = "PWC"
	OrganizationNotSupported Organization = "NotSupported"
)

// Organizations lists the organizations offered on the menu, in menu order.
var Organizations = []Organization{
	OrganizationKPMG,
	OrganizationDeloitte,
	OrganizationEY,
	OrganizationPWC,
}

// ParseOrganization matches s case-insensitively against every known value,
// NotSupported included. Unknown text yields NotSupported and false.
func ParseOrganization(s string) (Organization, bool) {
	s = strings.TrimSpace(s)
	for _, o := range Organizations {
		if strings.EqualFold(s, string(o)) {
			return o, true
		}
	}
	return OrganizationNotSupported, strings.EqualFold(s, string(OrganizationNotSupported))
}

// Supported reports whether o is one of the four menu organizations.
func (o Organization) Supported() bool {
	for _, s := range Organizations {
		if o == s {
			return true
		}
	}
	return false
}

// SelectionKind discriminates a Selection.
type SelectionKind string

const (
	SelectionUnset   SelectionKind = "unset"
	SelectionInvalid SelectionKind = "invalid"
	SelectionChosen  SelectionKind = "chosen"
)

// Selection is the flow-internal view of an organization choice. Unlike the
// NotSupported sentinel it keeps "nothing chosen yet" apart from "rejected input".
type Selection struct {
	Kind         SelectionKind `json:"kind"`
	Organization Organization  `json:"organization,omitempty"`
}

// Chosen builds a selection for a supported organization.
func Chosen(o Organization) Selection {
	if !o.Supported() {
		return Selection{Kind: SelectionInvalid}
	}
	return Selection{Kind: SelectionChosen, Organization: o}
}

// SelectionFromText parses free text. Empty text is Unset, unknown or
// NotSupported text is Invalid.
func SelectionFromText(s string) Selection {
	if strings.TrimSpace(s) == "" {
		return Selection{Kind: SelectionUnset}
	}
	o, _ := ParseOrganization(s)
	return Chosen(o)
}

// External collapses the selection to the single-sentinel form used by
// persisted members and classifier output.
func (s Selection) External() Organization {
	if s.Kind == SelectionChosen {
		return s.Organization
	}
	return OrganizationNotSupported
}
