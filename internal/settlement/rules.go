package settlement

// OutcomeBucket is the 3-way reduction of a financial status used by the
// per-ticket projection counters.
type OutcomeBucket string

const (
	BucketWon  OutcomeBucket = "won"
	BucketLost OutcomeBucket = "lost"
	BucketVoid OutcomeBucket = "void"
	BucketNone OutcomeBucket = "none"
)

// BucketOf reduces a financial status to won/lost/void. Full and partial
// wins count as won, full and partial losses as lost, break-even as void.
// PENDING maps to none and must not reach the counters.
func BucketOf(status FinancialStatus) OutcomeBucket {
	switch status {
	case FinancialStatusFullWin, FinancialStatusPartialWin:
		return BucketWon
	case FinancialStatusTotalLoss, FinancialStatusPartialLoss:
		return BucketLost
	case FinancialStatusBreakEven:
		return BucketVoid
	}
	return BucketNone
}

func IsWin(status FinancialStatus) bool {
	return BucketOf(status) == BucketWon
}

func IsLoss(status FinancialStatus) bool {
	return BucketOf(status) == BucketLost
}

func IsBreakEven(status FinancialStatus) bool {
	return status == FinancialStatusBreakEven
}

func IsSettled(status FinancialStatus) bool {
	return status != FinancialStatusPending && status != ""
}

// CountsForStreak reports whether the status moves the win/loss streak.
// Break-even and pending tickets reset the streak instead of extending it.
func CountsForStreak(status FinancialStatus) bool {
	switch BucketOf(status) {
	case BucketWon, BucketLost:
		return true
	}
	return false
}

func DisplayText(status FinancialStatus) string {
	switch status {
	case FinancialStatusFullWin:
		return "Full win"
	case FinancialStatusPartialWin:
		return "Partial win"
	case FinancialStatusBreakEven:
		return "Break even"
	case FinancialStatusPartialLoss:
		return "Partial loss"
	case FinancialStatusTotalLoss:
		return "Total loss"
	case FinancialStatusPending:
		return "Pending"
	}
	return "Unknown"
}
