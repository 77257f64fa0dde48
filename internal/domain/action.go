package domain

// Action is the tagged union of cart state transitions. The reducer matches
// on the concrete type; anything else leaves state unchanged.
type Action interface {
	isAction()
}

// ItemPatch is a partial update for UpdateItem. Nil fields are left as-is.
type ItemPatch struct {
	SelectedMoments []SelectedMoment
	IsConfigured    *bool
	EstimatedPrice  *int64
}

type AddItem struct{ Item CartItem }

type RemoveItem struct{ CartItemID string }

type UpdateItem struct {
	CartItemID string
	Patch      ItemPatch
}

type ClearCart struct{}

type ConfigureMoments struct {
	CartItemID string
	Moments    []SelectedMoment
}

type UpdateMoments struct {
	CartItemID string
	Moments    []SelectedMoment
}

type LoadCart struct{ Items []CartItem }

type LoadDraft struct{ Items []CartItem }

type ToggleOpen struct{}

type SetLoading struct{ Loading bool }

type SetError struct{ Err *CartError }

type ClearError struct{}

func (AddItem) isAction()          {}
func (RemoveItem) isAction()       {}
func (UpdateItem) isAction()       {}
func (ClearCart) isAction()        {}
func (ConfigureMoments) isAction() {}
func (UpdateMoments) isAction()    {}
func (LoadCart) isAction()         {}
func (LoadDraft) isAction()        {}
func (ToggleOpen) isAction()       {}
func (SetLoading) isAction()       {}
func (SetError) isAction()         {}
func (ClearError) isAction()       {}
