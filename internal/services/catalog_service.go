package services

import (
	"context"
	"fmt"
	"strings"

	"pizzashop/internal/models"
	"pizzashop/internal/repositories"
)

// CatalogService handles read access to the pizza catalog.
type CatalogService struct {
	repo repositories.PizzaRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.PizzaRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListCatalog retrieves all pizzas in storage order.
func (s *CatalogService) ListCatalog(ctx context.Context) ([]models.Pizza, error) {
	pizzas, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, &StorageError{Step: StepRead, Err: err}
	}
	return pizzas, nil
}

// ListNames retrieves pizza names in storage order.
func (s *CatalogService) ListNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.GetNames(ctx)
	if err != nil {
		return nil, &StorageError{Step: StepRead, Err: err}
	}
	return names, nil
}

// catalogIndex resolves cart lines against a catalog snapshot.
type catalogIndex struct {
	byID   map[uint]models.Pizza
	byName map[string]models.Pizza
}

func newCatalogIndex(pizzas []models.Pizza) catalogIndex {
	idx := catalogIndex{
		byID:   make(map[uint]models.Pizza, len(pizzas)),
		byName: make(map[string]models.Pizza, len(pizzas)),
	}
	for _, p := range pizzas {
		idx.byID[p.ID] = p
		idx.byName[strings.ToLower(p.Name)] = p
	}
	return idx
}

// pricedLine is a cart line matched to its catalog entry.
type pricedLine struct {
	pizza    models.Pizza
	size     models.Size
	quantity int
	unit     models.Money
}

func (l pricedLine) total() models.Money {
	return l.unit.Times(l.quantity)
}

// price matches every line to a pizza and size. The first line that does not
// match is reported as a ValidationError. A line naming both an id and a name
// must name the same pizza twice.
func (idx catalogIndex) price(lines []models.CartLine) ([]pricedLine, error) {
	priced := make([]pricedLine, 0, len(lines))
	for i, line := range lines {
		pizza, ok := idx.lookup(line)
		if !ok {
			ref := line.PizzaName
			if line.PizzaID != 0 {
				ref = fmt.Sprintf("#%d", line.PizzaID)
			}
			return nil, &ValidationError{
				Field:   fmt.Sprintf("items[%d].pizza", i),
				Message: fmt.Sprintf("pizza %s is not on the menu", ref),
			}
		}
		if name := strings.TrimSpace(line.PizzaName); line.PizzaID != 0 && name != "" && !strings.EqualFold(name, pizza.Name) {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("items[%d].pizza_name", i),
				Message: fmt.Sprintf("pizza_name %q does not match pizza #%d (%s)", name, line.PizzaID, pizza.Name),
			}
		}
		size, err := models.ParseSize(line.Size)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].size", i), Message: err.Error()}
		}
		unit, err := pizza.PriceFor(size)
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].size", i), Message: err.Error()}
		}
		priced = append(priced, pricedLine{pizza: pizza, size: size, quantity: line.Quantity, unit: unit})
	}
	return priced, nil
}

func (idx catalogIndex) lookup(line models.CartLine) (models.Pizza, bool) {
	if line.PizzaID != 0 {
		p, ok := idx.byID[line.PizzaID]
		return p, ok
	}
	p, ok := idx.byName[strings.ToLower(strings.TrimSpace(line.PizzaName))]
	return p, ok
}

// orderTotal sums unit price times quantity over all lines.
func orderTotal(lines []pricedLine) models.Money {
	total := models.Money{}
	for _, l := range lines {
		total = total.Plus(l.total())
	}
	return total
}
