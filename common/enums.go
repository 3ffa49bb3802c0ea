// Package common keeps enums shared by configuration and conversion code.
package common

//go:generate go tool go-enum --names --marshal

// Specification of requested output type.
// ENUM(usercss, zip, json)
type OutputFmt int

// Ext returns file name extension for a single output of the format.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtUsercss:
		return ".user.css"
	case OutputFmtZip:
		return ".zip"
	case OutputFmtJson:
		return ".json"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// SingleFile reports if format produces exactly one output file.
func (o OutputFmt) SingleFile() bool {
	return o == OutputFmtZip || o == OutputFmtJson
}
