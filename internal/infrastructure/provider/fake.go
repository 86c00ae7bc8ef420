package provider

import (
	"context"
	"fmt"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"
)

// Ensure Fake implements application.OrderProvider.
var _ application.OrderProvider = (*Fake)(nil)

// Fake returns a canned order document for any identifier; useful for
// dry runs and tests when no Atlas credentials are at hand.
type Fake struct{}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Fetch(_ context.Context, id domain.OrderID) (domain.Document, error) {
	doc := fmt.Sprintf(`{"data":{"order":{"id":%q,"status":"COMPLETED","__typename":"Order"}}}`, string(id))
	return domain.Document(doc), nil
}
