// Package scorer estimates how likely two contacts describe the same person.
//
// Score applies a cascade of rules. Exact email or full phone matches are
// decisive. A confident first-name match with a clearly different last name
// is a contradiction and rejects the pair outright. Otherwise each piece of
// evidence contributes a weight and the confidence is their mean, with a
// small boost when more than one piece agrees.
package scorer

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	contactdomain "contacthub-backend/internal/contact/domain"
	"contacthub-backend/internal/duplicate/domain"
	"contacthub-backend/pkg/fuzzy"

	"golang.org/x/sync/errgroup"
)

const (
	nameMatchRatio     = 0.8
	nameConflictRatio  = 0.3
	emailSupportRatio  = 0.8
	emailSimilarRatio  = 0.9
	fullPhoneDigits    = 10
	partialPhoneDigits = 7

	weightFullName     = 0.9
	weightFirstName    = 0.7
	weightSimilarEmail = 0.6
	weightPartialPhone = 0.5
	multiEvidenceBoost = 0.1
)

// Reason texts
const (
	ReasonIdenticalEmail = "identical email"
	ReasonIdenticalPhone = "identical phone"
	reasonPartialPhone   = "matching last 7 digits of phone numbers"
	subBullet            = "  • "
)

// Score returns the duplicate confidence in [0,1] for a and b with the
// reasons that produced it. It is pure; callers never pass a contact with itself.
func Score(a, b *contactdomain.Contact) (float64, []string) {
	if a.Email != "" && b.Email != "" && strings.EqualFold(a.Email, b.Email) {
		return 1.0, []string{ReasonIdenticalEmail}
	}

	phoneA, phoneB := digitsOnly(a.Phone), digitsOnly(b.Phone)
	if len(phoneA) >= fullPhoneDigits && phoneA == phoneB {
		return 1.0, []string{ReasonIdenticalPhone}
	}

	var weights []float64
	var reasons []string

	if hasFullName(a) && hasFullName(b) {
		first := fuzzy.Ratio(a.FirstName, b.FirstName)
		last := fuzzy.Ratio(a.LastName, b.LastName)

		switch {
		case first > nameMatchRatio && last > nameMatchRatio:
			weights = append(weights, weightFullName)
			reasons = append(reasons, fmt.Sprintf("similar full names: %s %s ≈ %s %s",
				a.FirstName, a.LastName, b.FirstName, b.LastName))
		case first > nameMatchRatio && last < nameConflictRatio:
			return 0.0, []string{}
		}
	} else if a.FirstName != "" && b.FirstName != "" && fuzzy.Ratio(a.FirstName, b.FirstName) > nameMatchRatio {
		var support []string
		if partialPhoneMatch(phoneA, phoneB) {
			support = append(support, reasonPartialPhone)
		}
		if a.Email != "" && b.Email != "" && fuzzy.Ratio(a.Email, b.Email) > emailSupportRatio {
			support = append(support, fmt.Sprintf("similar email addresses: %s ≈ %s", a.Email, b.Email))
		}

		if len(support) > 0 {
			weights = append(weights, weightFirstName)
			reasons = append(reasons, fmt.Sprintf("matching first name (%s) with supporting evidence:", a.FirstName))
			for _, s := range support {
				reasons = append(reasons, subBullet+s)
			}
		}
	}

	if len(weights) == 0 {
		if a.Email != "" && b.Email != "" && fuzzy.Ratio(a.Email, b.Email) > emailSimilarRatio {
			weights = append(weights, weightSimilarEmail)
			reasons = append(reasons, fmt.Sprintf("very similar email addresses: %s ≈ %s", a.Email, b.Email))
		}
		if partialPhoneMatch(phoneA, phoneB) {
			weights = append(weights, weightPartialPhone)
			reasons = append(reasons, reasonPartialPhone)
		}
	}

	if len(weights) == 0 {
		return 0.0, []string{}
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	confidence := sum / float64(len(weights))
	if len(weights) > 1 {
		confidence += multiEvidenceBoost
		if confidence > 1.0 {
			confidence = 1.0
		}
	}
	return confidence, reasons
}

// FindDuplicates scores every unordered pair of contacts and returns the pairs
// whose confidence exceeds threshold, highest confidence first. Pairs with equal
// confidence keep their input order, so the output is reproducible for a given
// contact order. Rows are scored on up to workers goroutines.
func FindDuplicates(ctx context.Context, contacts []*contactdomain.Contact, threshold float64, workers int) ([]domain.Pair, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([][]domain.Pair, len(contacts))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range contacts {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < len(contacts); j++ {
				a, b := contacts[i], contacts[j]
				if a.ID == b.ID {
					continue
				}
				confidence, reasons := Score(a, b)
				if confidence > threshold {
					rows[i] = append(rows[i], domain.Pair{
						Contact1ID: a.ID,
						Contact2ID: b.ID,
						Confidence: confidence,
						Reasons:    reasons,
					})
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pairs []domain.Pair
	for _, row := range rows {
		pairs = append(pairs, row...)
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Confidence > pairs[j].Confidence
	})
	return pairs, nil
}

func hasFullName(c *contactdomain.Contact) bool {
	return c.FirstName != "" && c.LastName != ""
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func partialPhoneMatch(a, b string) bool {
	if len(a) < partialPhoneDigits || len(b) < partialPhoneDigits {
		return false
	}
	return a[len(a)-partialPhoneDigits:] == b[len(b)-partialPhoneDigits:]
}
