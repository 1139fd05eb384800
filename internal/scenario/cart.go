package scenario

import (
	"github.com/ozonqa/storefront-e2e/internal/pages/cart"
	"github.com/ozonqa/storefront-e2e/internal/pages/search"
)

func cartScenarios() []Scenario {
	return []Scenario{
		{
			Suite: SuiteCart,
			Name:  "Delete selected items",
			Run:   deleteSelectedItems,
		},
	}
}

func deleteSelectedItems(t *T) error {
	if err := openAndSearch(t, ProductQuery); err != nil {
		return err
	}
	if err := search.AddItemToCart(t.Ctx, t.Page, 0); err != nil {
		return err
	}
	if err := cart.Open(t.Ctx, t.Page); err != nil {
		return err
	}

	// The business account offer only shows up for some visitors.
	popups, err := t.Page.Count(t.Ctx, cart.B2BPopup)
	if err != nil {
		return err
	}
	if popups > 0 {
		if err := cart.CloseB2BPopup(t.Ctx, t.Page); err != nil {
			return err
		}
	}

	if err := cart.DeleteSelectedItems(t.Ctx, t.Page); err != nil {
		return err
	}
	if err := cart.ConfirmItemsDeletion(t.Ctx, t.Page); err != nil {
		return err
	}

	empty, err := cart.IsEmpty(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	if !empty {
		names, _ := cart.ItemNames(t.Ctx, t.Page)
		return Failf("cart still holds %d items: %v", len(names), names)
	}
	return nil
}
