package knowledge

import (
	"fmt"
	"time"

	"github.com/gcterminus/engine/pkg/state"
)

// TradeOffer is a standing offer from a character: give these items, receive
// that one. Offers are authored content; acceptance state lives in
// MarketplaceState.
type TradeOffer struct {
	ID              string     `json:"id" yaml:"id"`
	FromCharacterID string     `json:"from_character_id" yaml:"from_character_id"`
	OfferedItem     string     `json:"offered_item" yaml:"offered_item"`
	PriceInItems    []string   `json:"price_in_items,omitempty" yaml:"price_in_items,omitempty"`
	MinTrust        int        `json:"min_trust,omitempty" yaml:"min_trust,omitempty"`
	OneTimeOnly     bool       `json:"one_time_only,omitempty" yaml:"one_time_only,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// MarketplaceState is the player's inventory of tradeable information plus
// completed-trade history.
type MarketplaceState struct {
	Inventory       state.IDSet `json:"inventory,omitempty"`
	CompletedTrades []string    `json:"completed_trades,omitempty"`
}

func (ms MarketplaceState) completed(offerID string) bool {
	for _, id := range ms.CompletedTrades {
		if id == offerID {
			return true
		}
	}
	return false
}

// TradeDecision is the typed result of a trade precondition check.
type TradeDecision struct {
	CanAccept bool   `json:"can_accept"`
	Reason    string `json:"reason,omitempty"`
}

// CanAcceptTrade checks preconditions in a fixed order (expiration, one-time
// exhaustion, trust, required items) and the first failure sets the reason.
// The clock comes from the caller so checks stay deterministic in tests.
func CanAcceptTrade(ms MarketplaceState, offer TradeOffer, currentTrust int, now time.Time) TradeDecision {
	if offer.ExpiresAt != nil && now.After(*offer.ExpiresAt) {
		return TradeDecision{Reason: "This offer has expired"}
	}
	if offer.OneTimeOnly && ms.completed(offer.ID) {
		return TradeDecision{Reason: "You've already made this trade"}
	}
	if currentTrust < offer.MinTrust {
		return TradeDecision{Reason: fmt.Sprintf("Requires trust level %d with %s", offer.MinTrust, offer.FromCharacterID)}
	}
	for _, item := range offer.PriceInItems {
		if !ms.Inventory.Has(item) {
			return TradeDecision{Reason: fmt.Sprintf("You don't have the information they want: %s", item)}
		}
	}
	return TradeDecision{CanAccept: true}
}

// ExecuteTrade applies an accepted trade all-or-nothing: the priced items come
// out, the offered item goes in, and the offer is recorded as completed. The
// same precondition check runs again so a stale decision can't partially
// apply; on failure the input state comes back unchanged with the reason.
func ExecuteTrade(ms MarketplaceState, offer TradeOffer, currentTrust int, now time.Time) (MarketplaceState, TradeDecision) {
	decision := CanAcceptTrade(ms, offer, currentTrust, now)
	if !decision.CanAccept {
		return ms, decision
	}

	inventory := make(state.IDSet, len(ms.Inventory))
	for item := range ms.Inventory {
		inventory[item] = struct{}{}
	}
	for _, item := range offer.PriceInItems {
		delete(inventory, item)
	}
	inventory[offer.OfferedItem] = struct{}{}

	out := MarketplaceState{
		Inventory:       inventory,
		CompletedTrades: append(append([]string(nil), ms.CompletedTrades...), offer.ID),
	}
	return out, decision
}
