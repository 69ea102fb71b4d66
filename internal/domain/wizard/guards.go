package wizard

import "strings"

// Guard is a predicate over a session. Guards only read the state and never panic,
// whatever is missing from it.
type Guard func(State) bool

func HasSession(s State) bool {
	return strings.TrimSpace(s.SessionID) != ""
}

func HasClient(s State) bool {
	return HasSession(s) && s.Client != nil && s.Client.ClientID > 0
}

func HasOrderInfo(s State) bool {
	return HasClient(s) && s.Info != nil && strings.TrimSpace(s.Info.BranchCode) != ""
}

func HasItems(s State) bool {
	return HasOrderInfo(s) && len(s.Items) > 0
}

func EditingItem(s State) bool {
	return HasOrderInfo(s) && s.CurrentItem != nil
}

func HasExecution(s State) bool {
	return HasItems(s) && s.Execution != nil
}

func HasDiscount(s State) bool {
	return HasExecution(s) && s.Discount != nil
}

func HasPayment(s State) bool {
	return HasDiscount(s) && s.Payment != nil && s.Quote != nil
}

func HasAdditionalInfo(s State) bool {
	return HasPayment(s) && s.Additional != nil
}

func IsPersisted(s State) bool {
	return HasSession(s) && s.OrderID > 0
}

// entryGuards says what a session must hold before it may show a step.
var entryGuards = map[Step]Guard{
	StepClientSelection:     HasSession,
	StepOrderInitialization: HasClient,
	StepItemManagement:      HasOrderInfo,
	StepItemWizard:          EditingItem,
	StepExecutionParams:     HasItems,
	StepGlobalDiscounts:     HasExecution,
	StepPayment:             HasDiscount,
	StepAdditionalInfo:      HasPayment,
	StepConfirmation:        HasAdditionalInfo,
	StepCompleted:           IsPersisted,
}

// CanEnter reports whether the session holds everything the step needs.
func CanEnter(step Step, s State) bool {
	g, ok := entryGuards[step]
	return ok && g(s)
}
