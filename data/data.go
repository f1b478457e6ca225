// Package data embeds the default player corpus and difficulty tier table.
package data

import _ "embed"

// PlayersCSV is the default player corpus
//
//go:embed players.csv
var PlayersCSV []byte

// TiersYAML is the default difficulty tier table
//
//go:embed tiers.yaml
var TiersYAML []byte
