package ledger

import (
	"fmt"

	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
)

func errInsufficient(current, amount balance.Balance) error {
	return fmt.Errorf("%w: have %s, need %s", errs.ErrInsufficientBalance, current, amount)
}
