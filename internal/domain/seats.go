package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoSeats        = errors.New("no seats selected")
	ErrBadSeatLabel   = errors.New("invalid seat label")
	ErrDuplicateSeats = errors.New("duplicate seat labels in request")
	ErrNegativeTotal  = errors.New("seat count or price out of range")
)

var seatLabelRe = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)

// NormalizeSeats validates and canonicalizes a requested seat list:
// labels are trimmed and upper-cased, must match the short alphanumeric
// form ("A1", "B12"), and must not repeat within the request.
func NormalizeSeats(seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}

	out := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))

	for _, s := range seats {
		label := strings.ToUpper(strings.TrimSpace(s))
		if !seatLabelRe.MatchString(label) {
			return nil, fmt.Errorf("%w: %q", ErrBadSeatLabel, s)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSeats, label)
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}

	return out, nil
}

// SeatIntersection returns the requested labels already present in booked,
// preserving request order. An empty result means the request is free of
// conflicts against the given occupancy snapshot.
func SeatIntersection(requested, booked []string) []string {
	if len(requested) == 0 || len(booked) == 0 {
		return nil
	}

	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	var conflicts []string
	for _, r := range requested {
		if _, ok := taken[r]; ok {
			conflicts = append(conflicts, r)
		}
	}

	return conflicts
}

// TotalAmountCents computes the booking total, fixed once at creation.
func TotalAmountCents(pricePerSeatCents int64, seatCount int) (int64, error) {
	if pricePerSeatCents < 0 || seatCount <= 0 {
		return 0, ErrNegativeTotal
	}

	return pricePerSeatCents * int64(seatCount), nil
}
