package record

import "sort"

// Canonicalize normalizes seat numbering so hands are comparable regardless
// of the table's original seating: the button becomes seat 1, then seats are
// renumbered to be contiguous from 1 if churn left gaps. Applied once, as the
// final step of record construction.
func Canonicalize(h *Hand) {
	rotateToButtonOne(h)
	contiguizeSeats(h)
}

// rotateToButtonOne shifts every seat number (mod max_seats) so that the
// button lands on seat 1.
func rotateToButtonOne(h *Hand) {
	shift := (h.Metadata.ButtonSeat - 1) % h.Metadata.MaxSeats
	if shift == 0 {
		return
	}
	rotate := func(seat int) int {
		return ((seat-1-shift)%h.Metadata.MaxSeats+h.Metadata.MaxSeats)%h.Metadata.MaxSeats + 1
	}

	for i := range h.Players {
		h.Players[i].Seat = rotate(h.Players[i].Seat)
	}
	sort.Slice(h.Players, func(i, j int) bool { return h.Players[i].Seat < h.Players[j].Seat })

	for i := range h.Actions {
		h.Actions[i].ActorSeat = rotate(h.Actions[i].ActorSeat)
	}

	h.Metadata.HeroSeat = rotate(h.Metadata.HeroSeat)
	h.Metadata.ButtonSeat = 1
}

// contiguizeSeats renumbers seats to 1..n with no gaps.
func contiguizeSeats(h *Hand) {
	seats := make([]int, 0, len(h.Players))
	seen := make(map[int]bool)
	for _, p := range h.Players {
		if !seen[p.Seat] {
			seen[p.Seat] = true
			seats = append(seats, p.Seat)
		}
	}
	sort.Ints(seats)

	contiguous := true
	for i, seat := range seats {
		if seat != i+1 {
			contiguous = false
			break
		}
	}
	if contiguous {
		return
	}

	seatMap := make(map[int]int, len(seats))
	for i, seat := range seats {
		seatMap[seat] = i + 1
	}
	mapped := func(seat int) int {
		if n, ok := seatMap[seat]; ok {
			return n
		}
		return seat
	}

	for i := range h.Players {
		h.Players[i].Seat = mapped(h.Players[i].Seat)
	}
	sort.Slice(h.Players, func(i, j int) bool { return h.Players[i].Seat < h.Players[j].Seat })

	for i := range h.Actions {
		h.Actions[i].ActorSeat = mapped(h.Actions[i].ActorSeat)
	}

	h.Metadata.HeroSeat = mapped(h.Metadata.HeroSeat)
	h.Metadata.ButtonSeat = mapped(h.Metadata.ButtonSeat)
}
