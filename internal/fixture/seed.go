package fixture

import "fmt"

// Seed fills an empty store with enough demo rows to make pagination,
// filtering and sorting visible out of the box. Seeding a non-empty store is
// a no-op so restarts keep edits.
func (s *Store) Seed() error {
	existing, _, err := s.List("products", ListQuery{Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	statuses := []string{"active", "active", "draft", "archived"}
	for i := 1; i <= 37; i++ {
		_, err := s.Insert("products", map[string]any{
			"name":   fmt.Sprintf("Product %02d", i),
			"sku":    fmt.Sprintf("SKU-%04d", i),
			"price":  float64(5*i) + 0.99,
			"status": statuses[i%len(statuses)],
		})
		if err != nil {
			return err
		}
	}

	authors := []string{"mira", "jens", "sol"}
	for i := 1; i <= 14; i++ {
		status := "published"
		if i%3 == 0 {
			status = "draft"
		}
		_, err := s.Insert("posts", map[string]any{
			"title":        fmt.Sprintf("Post %02d", i),
			"author":       authors[i%len(authors)],
			"body":         fmt.Sprintf("Body of post %d.", i),
			"status":       status,
			"published_at": fmt.Sprintf("2026-%02d-01", (i%12)+1),
		})
		if err != nil {
			return err
		}
	}

	series := []string{"Moonfall", "Tin City", "Driftwood"}
	for i := 1; i <= 11; i++ {
		_, err := s.Insert("comics", map[string]any{
			"title":  fmt.Sprintf("%s #%d", series[i%len(series)], i),
			"issue":  float64(i),
			"series": series[i%len(series)],
			"status": "ongoing",
		})
		if err != nil {
			return err
		}
	}

	placements := []string{"home", "sidebar", "checkout"}
	for i := 1; i <= 5; i++ {
		_, err := s.Insert("banners", map[string]any{
			"label":     fmt.Sprintf("Banner %d", i),
			"placement": placements[i%len(placements)],
			"image_url": fmt.Sprintf("https://cdn.example.com/banners/%d.png", i),
			"active":    i%2 == 1,
		})
		if err != nil {
			return err
		}
	}

	orderStatuses := []string{"pending", "paid", "shipped", "cancelled"}
	customers := []string{"Ada Byron", "Tom Kyte", "Lin Wei", "Oona Falk"}
	for i := 1; i <= 23; i++ {
		_, err := s.Insert("orders", map[string]any{
			"number":   fmt.Sprintf("ORD-%05d", 1000+i),
			"customer": customers[i%len(customers)],
			"total":    float64(12 * i),
			"status":   orderStatuses[i%len(orderStatuses)],
		})
		if err != nil {
			return err
		}
	}

	for i, code := range []string{"WELCOME10", "SUMMER24", "VIP50", "FREESHIP"} {
		kind := "percent"
		amount := float64(10 * (i + 1))
		if code == "FREESHIP" {
			kind = "fixed"
			amount = 4.95
		}
		_, err := s.Insert("discounts", map[string]any{
			"code":   code,
			"kind":   kind,
			"amount": amount,
			"active": i%2 == 0,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
