package platform

import "github.com/orderpilot/orderpilot/internal/model"

// ControlSet is the screen-matching vocabulary for one platform: likely
// accept-button texts in priority order, known resource identifiers, and
// the confirmation-dialog vocabulary. Extending platform coverage means
// adding a table row, not a new branch.
type ControlSet struct {
	AcceptTexts  []string
	ResourceIDs  []string
	ConfirmTexts []string
}

// Controls returns the control vocabulary for a platform. The generic
// fallback set is returned for platforms without a dedicated row.
func Controls(p model.Platform) ControlSet {
	if set, ok := controlTable()[p]; ok {
		return set
	}
	return genericControls()
}

// controlTable holds illustrative per-platform vocabularies. Button text
// in third-party apps changes over time; entries are ordered most likely
// first and matching is case-insensitive substring.
func controlTable() map[model.Platform]ControlSet {
	return map[model.Platform]ControlSet{
		model.PlatformSwiggy: {
			AcceptTexts:  []string{"Accept Order", "Accept", "Pick Up"},
			ResourceIDs:  []string{"in.swiggy.deliveryapp:id/accept_button", "in.swiggy.deliveryapp:id/btn_accept"},
			ConfirmTexts: []string{"Confirm", "Yes", "OK"},
		},
		model.PlatformZomato: {
			AcceptTexts:  []string{"Accept Order", "Accept", "Take Order"},
			ResourceIDs:  []string{"com.zomato.delivery:id/accept_order"},
			ConfirmTexts: []string{"Confirm", "Yes", "Proceed"},
		},
		model.PlatformUberEats: {
			AcceptTexts:  []string{"Accept", "Accept Delivery"},
			ResourceIDs:  []string{"com.ubercab.driver:id/accept_button"},
			ConfirmTexts: []string{"Confirm", "Got it", "OK"},
		},
		model.PlatformDoorDash: {
			AcceptTexts:  []string{"Accept", "Accept Order"},
			ResourceIDs:  []string{"com.doordash.driverapp:id/accept_button"},
			ConfirmTexts: []string{"Confirm", "Yes", "OK"},
		},
		model.PlatformGrubhub: {
			AcceptTexts:  []string{"Accept", "Take Offer"},
			ResourceIDs:  []string{"com.grubhub.driver:id/accept"},
			ConfirmTexts: []string{"Confirm", "Yes"},
		},
		model.PlatformInstacart: {
			AcceptTexts:  []string{"Accept Batch", "Accept"},
			ResourceIDs:  []string{"com.instacart.shopper:id/accept_batch"},
			ConfirmTexts: []string{"Confirm", "Start Shopping", "OK"},
		},
		model.PlatformZepto: {
			AcceptTexts:  []string{"Accept", "Accept Order"},
			ResourceIDs:  []string{"com.zepto.rider:id/accept"},
			ConfirmTexts: []string{"Confirm", "Yes"},
		},
		model.PlatformBlinkit: {
			AcceptTexts:  []string{"Accept", "Accept Order"},
			ResourceIDs:  []string{"com.grofers.delivery:id/accept_order"},
			ConfirmTexts: []string{"Confirm", "OK"},
		},
	}
}

func genericControls() ControlSet {
	return ControlSet{
		AcceptTexts:  []string{"Accept", "Accept Order"},
		ConfirmTexts: []string{"Confirm", "Yes", "OK"},
	}
}
