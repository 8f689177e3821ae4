// Package points implements the append-only ledger behind the shared points
// balance.
package points

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes credits from debits.
type TransactionType string

const (
	Earned TransactionType = "earned"
	Spent  TransactionType = "spent"
)

var (
	// ErrNegativeAmount is returned for transactions with amount < 0.
	ErrNegativeAmount = errors.New("transaction amount must not be negative")
	// ErrWrongType is returned when Add receives a spend or Deduct an earning.
	ErrWrongType = errors.New("transaction type does not match operation")
)

// SeedReason is the reason recorded on the starting-balance transaction.
const SeedReason = "starting balance"

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID         string          `json:"id"`
	Type       TransactionType `json:"type"`
	Amount     int             `json:"amount"`
	Reason     string          `json:"reason"`
	Timestamp  time.Time       `json:"timestamp"`
	QuizID     *string         `json:"quizId,omitempty"`
	QuestionID *int            `json:"questionId,omitempty"`
	HintID     *string         `json:"hintId,omitempty"`
}

// Ref links a transaction to the quiz, question or hint it was caused by.
type Ref struct {
	QuizID     string
	QuestionID int
	HintID     string
}

// NewEarned builds an earned transaction.
func NewEarned(amount int, reason string, ref Ref, now time.Time) Transaction {
	return newTransaction(Earned, amount, reason, ref, now)
}

// NewSpent builds a spent transaction.
func NewSpent(amount int, reason string, ref Ref, now time.Time) Transaction {
	return newTransaction(Spent, amount, reason, ref, now)
}

func newTransaction(typ TransactionType, amount int, reason string, ref Ref, now time.Time) Transaction {
	tx := Transaction{
		ID:        uuid.New().String(),
		Type:      typ,
		Amount:    amount,
		Reason:    reason,
		Timestamp: now,
	}
	if ref.QuizID != "" {
		tx.QuizID = &ref.QuizID
	}
	if ref.QuestionID != 0 {
		tx.QuestionID = &ref.QuestionID
	}
	if ref.HintID != "" {
		tx.HintID = &ref.HintID
	}
	return tx
}

// State is the player's points balance and its full history.
// TotalPoints always equals EarnedPoints - SpentPoints.
type State struct {
	TotalPoints   int           `json:"totalPoints"`
	EarnedPoints  int           `json:"earnedPoints"`
	SpentPoints   int           `json:"spentPoints"`
	PointsHistory []Transaction `json:"pointsHistory"`
}

// NewState returns a ledger seeded with one earned transaction for the
// starting balance (recorded even when it is zero).
func NewState(starting int, now time.Time) State {
	s := State{PointsHistory: []Transaction{}}
	if starting < 0 {
		starting = 0
	}
	// Seed cannot fail: the amount is non-negative and the type is Earned.
	_ = s.Add(NewEarned(starting, SeedReason, Ref{}, now))
	return s
}

// Add records an earned transaction.
func (s *State) Add(tx Transaction) error {
	if tx.Type != Earned {
		return fmt.Errorf("add %s transaction: %w", tx.Type, ErrWrongType)
	}
	if tx.Amount < 0 {
		return fmt.Errorf("add %d points: %w", tx.Amount, ErrNegativeAmount)
	}
	s.PointsHistory = append(s.PointsHistory, tx)
	s.EarnedPoints += tx.Amount
	s.TotalPoints = s.EarnedPoints - s.SpentPoints
	return nil
}

// Deduct records a spent transaction. Whether the balance may go below zero
// is decided by the caller before deducting.
func (s *State) Deduct(tx Transaction) error {
	if tx.Type != Spent {
		return fmt.Errorf("deduct %s transaction: %w", tx.Type, ErrWrongType)
	}
	if tx.Amount < 0 {
		return fmt.Errorf("deduct %d points: %w", tx.Amount, ErrNegativeAmount)
	}
	s.PointsHistory = append(s.PointsHistory, tx)
	s.SpentPoints += tx.Amount
	s.TotalPoints = s.EarnedPoints - s.SpentPoints
	return nil
}

// Fold recomputes the balances from the transaction history.
func Fold(history []Transaction) (earned, spent int) {
	for _, tx := range history {
		switch tx.Type {
		case Earned:
			earned += tx.Amount
		case Spent:
			spent += tx.Amount
		}
	}
	return earned, spent
}

// Reconcile checks the cached balances against the history.
func (s State) Reconcile() error {
	earned, spent := Fold(s.PointsHistory)
	switch {
	case earned != s.EarnedPoints:
		return fmt.Errorf("earned points %d do not match history %d", s.EarnedPoints, earned)
	case spent != s.SpentPoints:
		return fmt.Errorf("spent points %d do not match history %d", s.SpentPoints, spent)
	case s.TotalPoints != s.EarnedPoints-s.SpentPoints:
		return fmt.Errorf("total points %d != earned %d - spent %d", s.TotalPoints, s.EarnedPoints, s.SpentPoints)
	}
	return nil
}

// Repair rebuilds the cached balances from the history.
func (s *State) Repair() {
	s.EarnedPoints, s.SpentPoints = Fold(s.PointsHistory)
	s.TotalPoints = s.EarnedPoints - s.SpentPoints
}

// Clone returns a copy with its own history slice.
func (s State) Clone() State {
	c := s
	c.PointsHistory = make([]Transaction, len(s.PointsHistory))
	copy(c.PointsHistory, s.PointsHistory)
	return c
}
