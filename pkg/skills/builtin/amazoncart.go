package builtin

import (
	"fmt"

	"github.com/byrencheema/tappy/pkg/skills"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func amazonCartConfig() skills.SkillConfig {
	return skills.SkillConfig{
		ID:          "amazon-add-to-cart",
		Name:        "Amazon Add to Cart",
		Kind:        skilltypes.KindAction,
		Description: "Searches for products on Amazon and adds them to your cart",
		Schema: skills.MustParameterSchema(
			skills.Field{
				Name: "product_query", Type: skills.FieldString, Required: true,
				Description: "Product search query",
			},
			skills.Field{
				Name: "quantity", Type: skills.FieldInt, Default: 1,
				Min: ptr(1.0), Max: ptr(10.0),
				Description: "Quantity to add to cart",
			},
		),
		ExampleParams: map[string]any{"product_query": "wireless headphones", "quantity": 1},
		PlannerHints: "Trigger when the note mentions needing to buy something, shopping for items, " +
			"running low on supplies, or wanting to purchase. Look for cues like " +
			"'need to buy', 'should order', 'running out of', 'want to get', " +
			"'looking for a new', 'add to my cart'. Extract the product from context. " +
			"IMPORTANT: This is an ACTION skill - always require user confirmation before adding.",
	}
}

func amazonCartTask(params map[string]any) string {
	return fmt.Sprintf("Search for %q on Amazon and add %v to the cart",
		params["product_query"], valueOr(params, "quantity", 1))
}

func formatAmazonCart(result skilltypes.ExecutionResult) skilltypes.FormattedResult {
	if result.Failed() {
		return pending("🛒 Amazon Cart Failed", "Unable to add to cart: "+result.Error+" — try again later.")
	}

	data, providerErr, ok := envelope(result)
	if !ok {
		return pending("🛒 Amazon Cart - Unknown Status", "The item may have been added but we couldn't confirm.")
	}
	if providerErr != "" {
		return pending("🛒 Amazon Cart Failed", providerErr)
	}

	message := fmt.Sprintf("Added: %q", getString(data, "product_name", "Your item"))
	if quantity := getInt(data, "quantity", 1); quantity > 1 {
		message += fmt.Sprintf(" (x%d)", quantity)
	}
	if price := getScalar(data, "price", ""); price != "" {
		message += "\n💰 " + price
	}
	if cartURL := getString(data, "cart_url", ""); cartURL != "" {
		message += "\n\n🔗 " + cartURL
	}

	return skilltypes.FormattedResult{
		Title:       "🛒 Added to Amazon Cart",
		Message:     message,
		ActionLabel: "View Cart",
		Status:      skilltypes.FormattedCompleted,
	}
}
