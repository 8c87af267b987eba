package endpoint

import (
	"context"
	"fmt"
)

// WaitlistChecker reports how many products currently depend on waitlist
// signups. The count lives outside this subsystem; implementations reach it
// over RPC (see the waitlist package) or return a fixed value in tests.
type WaitlistChecker interface {
	CountDependentProducts(ctx context.Context) (int, error)
}

// WaitlistWarning is returned when an operation would remove the last active
// subscriber to waitlist.signup while products still depend on those
// signups. The caller retries with confirm set to proceed anyway.
type WaitlistWarning struct {
	// DependentProducts is the number of products relying on waitlist
	// signups at the time of the check.
	DependentProducts int
}

func (w *WaitlistWarning) Error() string {
	return fmt.Sprintf("endpoint is the last active subscriber to waitlist.signup; %d product(s) depend on waitlist signups", w.DependentProducts)
}
