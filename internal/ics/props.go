package ics

import "strings"

// Calendar-level extension properties carrying assignment metadata.
const (
	propName      = "X-ASSIGNMENT-NAME"
	propColor     = "X-ASSIGNMENT-COLOR"
	propTypeID    = "X-ASSIGNMENT-TYPE"
	propUnitCode  = "X-UNIT-CODE"
	propStart     = "X-ASSIGNMENT-START"
	propEnd       = "X-ASSIGNMENT-END"
	propWRName    = "X-WR-CALNAME"
	propName7986  = "NAME"
	propAppleCol  = "X-APPLE-CALENDAR-COLOR"
	propColor7986 = "COLOR"
)

// Per-event extension properties. DTSTART and DTEND stop at whole
// seconds; the exact instants ride along when they have a fraction.
const (
	propOriginalTZID = "X-ORIGINAL-TZID"
	propExactStart   = "X-EXACT-START"
	propExactEnd     = "X-EXACT-END"
)

const (
	productID         = "-//termplan//Assignment Planner//EN"
	defaultName       = "Untitled"
	defaultTypeID     = "custom"
	uidDomain         = "termplan"
	icsExt            = ".ics"
	maxFilenameLength = 80
)

var (
	textEscaper   = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)
	textUnescaper = strings.NewReplacer(`\\`, `\`, `\;`, ";", `\,`, ",", `\n`, "\n", `\N`, "\n")
)

// escapeText and unescapeText apply RFC 5545 TEXT escaping.
func escapeText(s string) string   { return textEscaper.Replace(s) }
func unescapeText(s string) string { return textUnescaper.Replace(s) }
