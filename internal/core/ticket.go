package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TicketPrefix is the fixed prefix of shop ticket numbers, e.g. "L-00042".
const TicketPrefix = "L-"

var ticketPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(TicketPrefix) + `(\d{5,})$`)

// SuggestTicket returns the ticket following the highest well-formed ticket in
// existing. Tickets that do not match the prefix-and-digits pattern are ignored.
func SuggestTicket(existing []string) string {
	highest := 0
	for _, t := range existing {
		m := ticketPattern.FindStringSubmatch(strings.TrimSpace(t))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%05d", TicketPrefix, highest+1)
}
