package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// catalogNamespace derives stable product ids from image keys so reseeding updates rows
// in place.
var catalogNamespace = uuid.MustParse("6f1c1f0e-3a55-4c56-9d0b-3f6b7f0b2a11")

type productWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Image       string
	Name        string
	Price       string
	Description string
}

var products = []productSeed{
	{Image: "image1", Name: "Mean Girl", Price: "$120.0", Description: "2020.03.08"},
	{Image: "image2", Name: "雲端", Price: "$180.0", Description: "Wish I could just let my mind wander in the clouds 🌙☁️ 2020.04.25"},
	{Image: "image3", Name: "宇宙", Price: "$220.0", Description: "2019.10.30"},
	{Image: "image4", Name: "紅鶴", Price: "$300.0", Description: "2021.02.13"},
	{Image: "image5", Name: "Hey You", Price: "$270.0", Description: "2019.10.09"},
	{Image: "image6", Name: "銀杏", Price: "$270.0", Description: "Miss ginkgo trees in autumn🍂 2024.10.15"},
}

// ProductID returns the id the seed assigns to the product shown with image.
func ProductID(image string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(image)).String()
}

// Apply upserts the default catalog. Running it twice leaves the same six rows.
func Apply(ctx context.Context, repo productWriter) (int, error) {
	for i, p := range products {
		_, err := repo.Upsert(ctx, domain.Product{
			ID:          ProductID(p.Image),
			Image:       p.Image,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
		})
		if err != nil {
			return i, fmt.Errorf("upsert product %s: %w", p.Image, err)
		}
	}
	return len(products), nil
}
