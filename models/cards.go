package models

import (
	"fmt"
	"strings"
)

// Card is a playing card encoded as rank (2-14, ace high) and suit
type Card struct {
	Rank int    `json:"rank"`
	Suit string `json:"suit"` // "s", "h", "d", "c"
}

var rankNames = map[int]string{
	2: "2", 3: "3", 4: "4", 5: "5", 6: "6", 7: "7", 8: "8", 9: "9",
	10: "T", 11: "J", 12: "Q", 13: "K", 14: "A",
}

// String renders the card in compact form, e.g. "As", "Td"
func (c Card) String() string {
	name, ok := rankNames[c.Rank]
	if !ok {
		name = "?"
	}
	return name + c.Suit
}

// ParseCard parses the compact form produced by String
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	var rank int
	for r, name := range rankNames {
		if name == strings.ToUpper(s[:1]) {
			rank = r
			break
		}
	}
	suit := strings.ToLower(s[1:])
	if rank == 0 || !strings.Contains("shdc", suit) {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}
