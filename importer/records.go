// Package importer turns externally supplied rows into typed records and
// merges them into a registry, skipping bad or duplicate rows.
package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind string

const (
	KindRooms     Kind = "rooms"
	KindBorrowers Kind = "borrowers"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRooms:
		return KindRooms, nil
	case KindBorrowers:
		return KindBorrowers, nil
	}
	return "", fmt.Errorf("unknown import kind %q", s)
}

// Row is one raw record keyed by column name.
type Row map[string]string

func (r Row) get(col string) string { return strings.TrimSpace(r[col]) }

type RoomRecord struct {
	Nom         string
	Capacite    int
	Equipements string
	Description string
}

// RoomFromRow trims the columns and parses capacite. An empty capacite is
// zero; the record is still filled when capacite does not parse.
func RoomFromRow(r Row) (RoomRecord, error) {
	rec := RoomRecord{
		Nom:         r.get("nom"),
		Equipements: r.get("equipements"),
		Description: r.get("description"),
	}
	raw := r.get("capacite")
	if raw == "" {
		return rec, nil
	}
	n, err := parseCount(raw)
	if err != nil {
		return rec, fmt.Errorf("capacite %q is not a number", raw)
	}
	rec.Capacite = n
	return rec, nil
}

// parseCount accepts integers and integral floats ("30", "30.0"), which is
// how spreadsheet exports often write counts.
func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

type BorrowerRecord struct {
	Matricule string
	Nom       string
	Prenoms   string
	Telephone string
	Email     string
}

func BorrowerFromRow(r Row) (BorrowerRecord, error) {
	return BorrowerRecord{
		Matricule: r.get("matricule"),
		Nom:       r.get("nom"),
		Prenoms:   r.get("prenoms"),
		Telephone: r.get("telephone"),
		Email:     r.get("email"),
	}, nil
}
