package factories

import "github.com/chrisdamba/foodadmin/internal/models"

var menuByCuisine = map[string][]string{
	"Pizza":         {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme"},
	"Curry":         {"Chicken Tikka Masala", "Vegetable Curry", "Beef Madras", "Paneer Butter Masala"},
	"Burgers":       {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Grill":         {"Grilled Chicken", "BBQ Ribs", "Grilled Salmon", "Mixed Grill Platter"},
	"Salad":         {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad"},
	"Italian":       {"Spaghetti Carbonara", "Lasagna", "Risotto", "Tiramisu"},
	"Indian":        {"Butter Chicken", "Naan Bread", "Biryani", "Samosa"},
	"American":      {"Cheeseburger", "Hot Dog", "Mac and Cheese", "Apple Pie"},
	"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
	"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
	"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
	"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
	"Greek":         {"Gyros", "Souvlaki", "Moussaka", "Baklava"},
	"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Creme Brulee"},
	"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
}

// lineItems draws one to four dishes from the restaurant's cuisines.
func (f *Factory) lineItems(r Restaurant) []models.LineItem {
	count := f.fake.IntBetween(1, 4)
	items := make([]models.LineItem, count)
	for i := range items {
		items[i] = models.NewLineItem(
			f.id(),
			f.menuItemName(r.Cuisines),
			f.fake.IntBetween(1, 3),
			f.fake.Float64(2, 4, 28),
		)
	}
	return items
}

func (f *Factory) menuItemName(cuisines []string) string {
	if len(cuisines) == 0 {
		return "Special of the Day"
	}
	dishes, ok := menuByCuisine[f.pick(cuisines)]
	if !ok {
		return "Special of the Day"
	}
	return f.pick(dishes)
}
