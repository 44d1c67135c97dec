package record

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Expected key sets, one per nesting level. Generated hands must carry
// exactly these keys so the data stays interchangeable with records produced
// by other tooling.
var (
	topKeys      = keySet("metadata", "players", "streets", "actions", "outcome", "label")
	metadataKeys = keySet("game_type", "limit_type", "max_seats", "hero_seat", "hand_ended_on_street", "button_seat", "sb", "bb", "ante", "rng_seed_commitment")
	outcomeKeys  = keySet("winners", "payouts", "total_pot", "rake", "result_reason", "showdown")
	playerKeys   = keySet("player_uid", "seat", "starting_stack", "hole_cards", "showed_hand")
	streetKeys   = keySet("street", "board_cards")
	actionKeys   = keySet("action_id", "street", "actor_seat", "action_type", "amount", "raise_to", "call_to", "normalized_amount_bb", "pot_before", "pot_after")
)

// potTolerance is the rounding slack allowed by the monetary checks.
const potTolerance = 0.01

// Validate marshals a typed hand and runs the full consistency check over
// its JSON form. Returns human-readable violations; empty means valid.
func Validate(h *Hand) []string {
	data, err := json.Marshal(h)
	if err != nil {
		return []string{fmt.Sprintf("marshal hand: %v", err)}
	}
	return ValidateJSON(data)
}

// ValidateJSON checks a single hand object in its wire form.
func ValidateJSON(data []byte) []string {
	var hand map[string]json.RawMessage
	if err := json.Unmarshal(data, &hand); err != nil {
		return []string{fmt.Sprintf("hand is not a JSON object: %v", err)}
	}

	var violations []string
	report := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	checkKeys(rawKeys(hand), topKeys, "top-level", report)

	var meta map[string]any
	if raw, ok := hand["metadata"]; ok {
		if err := json.Unmarshal(raw, &meta); err != nil {
			report("metadata is not an object: %v", err)
		} else {
			checkKeys(mapKeys(meta), metadataKeys, "metadata", report)
		}
	}

	if raw, ok := hand["outcome"]; ok {
		var outcome map[string]any
		if err := json.Unmarshal(raw, &outcome); err != nil {
			report("outcome is not an object: %v", err)
		} else {
			checkKeys(mapKeys(outcome), outcomeKeys, "outcome", report)
			checkPotIdentity(outcome, report)
		}
	}

	if raw, ok := hand["players"]; ok {
		var players []map[string]any
		if err := json.Unmarshal(raw, &players); err != nil {
			report("players is not an array of objects: %v", err)
		} else {
			for i, p := range players {
				checkKeys(mapKeys(p), playerKeys, fmt.Sprintf("player[%d]", i), report)
				if hc, ok := p["hole_cards"].([]any); ok && len(hc) != 2 {
					report("player[%d] hole_cards must have 2 cards, got %d", i, len(hc))
				}
			}
		}
	}

	var streets []map[string]any
	if raw, ok := hand["streets"]; ok {
		if err := json.Unmarshal(raw, &streets); err != nil {
			report("streets is not an array of objects: %v", err)
		} else {
			for i, st := range streets {
				checkKeys(mapKeys(st), streetKeys, fmt.Sprintf("street[%d]", i), report)
				checkBoardLength(st, i, report)
			}
		}
	}

	if raw, ok := hand["actions"]; ok {
		var actions []map[string]any
		if err := json.Unmarshal(raw, &actions); err != nil {
			report("actions is not an array of objects: %v", err)
		} else {
			for i, a := range actions {
				checkKeys(mapKeys(a), actionKeys, fmt.Sprintf("action[%d]", i), report)
				checkActionDelta(a, i, report)
			}
		}
	}

	if meta != nil {
		expected := endedStreetFromBoard(streets)
		if got, _ := meta["hand_ended_on_street"].(string); got != expected {
			report("metadata.hand_ended_on_street mismatch: expected %q got %q", expected, got)
		}
	}

	return violations
}

func checkPotIdentity(outcome map[string]any, report func(string, ...any)) {
	totalPot, ok := outcome["total_pot"].(float64)
	if !ok {
		return
	}
	rake, _ := outcome["rake"].(float64)
	var payoutSum float64
	if payouts, ok := outcome["payouts"].(map[string]any); ok {
		for _, v := range payouts {
			if f, ok := v.(float64); ok {
				payoutSum += f
			}
		}
	}
	if math.Abs(payoutSum+rake-totalPot) > potTolerance {
		report("total_pot mismatch: payouts+rake=%.2f total_pot=%.2f", payoutSum+rake, totalPot)
	}
}

func checkBoardLength(street map[string]any, idx int, report func(string, ...any)) {
	name, _ := street["street"].(string)
	board, _ := street["board_cards"].([]any)
	want, ok := map[string]int{"flop": 3, "turn": 4, "river": 5}[name]
	if !ok {
		report("street[%d] has unknown street name %q", idx, name)
		return
	}
	if len(board) != want {
		report("street[%d] %s must have %d cards, got %d", idx, name, want, len(board))
	}
}

// checkActionDelta enforces pot_after == pot_before + the action's signed
// displayed delta (0 for fold/check, negative for uncalled returns).
func checkActionDelta(action map[string]any, idx int, report func(string, ...any)) {
	actionType, _ := action["action_type"].(string)
	amount, _ := action["amount"].(float64)
	potBefore, _ := action["pot_before"].(float64)
	potAfter, _ := action["pot_after"].(float64)

	var delta float64
	switch actionType {
	case ActionFold, ActionCheck:
		delta = 0
	case ActionUncalledBetReturn:
		delta = -amount
	default:
		delta = amount
	}
	if math.Abs(potBefore+delta-potAfter) > potTolerance {
		report("action[%d] pot mismatch: pot_before=%.2f delta=%.2f pot_after=%.2f", idx, potBefore, delta, potAfter)
	}
}

func endedStreetFromBoard(streets []map[string]any) string {
	if len(streets) == 0 {
		return "preflop"
	}
	board, _ := streets[len(streets)-1]["board_cards"].([]any)
	switch len(board) {
	case 5:
		return "river"
	case 4:
		return "turn"
	case 3:
		return "flop"
	default:
		return "preflop"
	}
}

func checkKeys(got, want map[string]bool, context string, report func(string, ...any)) {
	if len(got) == len(want) {
		match := true
		for k := range got {
			if !want[k] {
				match = false
				break
			}
		}
		if match {
			return
		}
	}
	report("%s keys mismatch: expected=%v got=%v", context, sortedKeys(want), sortedKeys(got))
}

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func rawKeys(m map[string]json.RawMessage) map[string]bool {
	set := make(map[string]bool, len(m))
	for k := range m {
		set[k] = true
	}
	return set
}

func mapKeys(m map[string]any) map[string]bool {
	set := make(map[string]bool, len(m))
	for k := range m {
		set[k] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
