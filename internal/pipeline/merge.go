package pipeline

import (
	"snaporder/constants"
	"snaporder/internal/extract"
)

// MergeFields combines local regex results with a vision model answer. The
// model override is per category: a non-empty model list replaces the local
// one outright, an empty one leaves the local result alone. The two are never
// unioned, mixing sources within one category produces inconsistent rows.
func MergeFields(local, ai *extract.FieldSet) *extract.FieldSet {
	if ai == nil {
		return local
	}
	if local == nil {
		return ai
	}
	out := *local
	if len(ai.OrderIDs) > 0 {
		out.OrderIDs = ai.OrderIDs
	}
	if len(ai.Prices) > 0 {
		out.Prices = ai.Prices
	}
	if len(ai.Dates) > 0 {
		out.Dates = ai.Dates
	}
	if len(ai.Totals) > 0 {
		out.Totals = ai.Totals
	}
	if len(ai.Quantities) > 0 {
		out.Quantities = ai.Quantities
	}
	if len(ai.Sellers) > 0 {
		out.Sellers = ai.Sellers
	}
	if len(ai.TrackingNumbers) > 0 {
		out.TrackingNumbers = ai.TrackingNumbers
	}
	if len(ai.Items) > 0 {
		out.Items = ai.Items
	}
	return &out
}

// DeriveStatus maps final field content to the record status. An order ID
// means success, items without an ID mean a human should look, neither means
// the extraction failed.
func DeriveStatus(fs *extract.FieldSet) constants.RecordStatus {
	if fs == nil {
		return constants.StatusFailed
	}
	if len(fs.OrderIDs) > 0 {
		return constants.StatusSuccess
	}
	if len(fs.Items) > 0 {
		return constants.StatusReviewRequired
	}
	return constants.StatusFailed
}
