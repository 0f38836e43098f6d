package domain

// EntryKind discriminates how the root dialog is (re)entered.
type EntryKind string

const (
	// EntryFresh classifies the current utterance.
	EntryFresh EntryKind = "fresh"
	// EntrySeeded routes the carried organization as if just chosen.
	EntrySeeded EntryKind = "seeded"
	// EntryInvalid re-issues the menu without classifying.
	EntryInvalid EntryKind = "invalid"
)

// MenuEntry is the typed payload that (re)starts the root dialog.
type MenuEntry struct {
	Kind         EntryKind    `json:"kind"`
	Organization Organization `json:"organization,omitempty"`
}

// EntryFor converts a selection to the entry that restarts the menu with it.
func EntryFor(s Selection) MenuEntry {
	switch s.Kind {
	case SelectionChosen:
		return MenuEntry{Kind: EntrySeeded, Organization: s.Organization}
	case SelectionInvalid:
		return MenuEntry{Kind: EntryInvalid}
	default:
		return MenuEntry{Kind: EntryFresh}
	}
}

// CategorySeed (re)starts the organization dialog. Empty means ask for a category.
type CategorySeed Category

// HandbackKind discriminates a Handback.
type HandbackKind string

const (
	HandbackEmpty        HandbackKind = "empty"
	HandbackOrganization HandbackKind = "organization"
)

// Handback is the result a finished organization dialog returns to the root.
type Handback struct {
	Kind         HandbackKind `json:"kind"`
	Organization Organization `json:"organization,omitempty"`
}
