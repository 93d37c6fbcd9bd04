// bugs/catalog.go
//
// Static bug-sample content. Each bug is an idempotent textual rewrite that
// strips a known-correct guard clause from the sample; the guard text below
// must match the correct code byte for byte.
package bugs

import "math/rand"

var guards = map[string]string{
	"stats-average-empty": `  if (values.length === 0) {
    return 0;
  }
`,
	"stats-ratio-zero": `  if (total === 0) {
    return 0;
  }
`,
	"stats-nth-bounds": `  if (n < 0 || n >= values.length) {
    return null;
  }
`,
	"stats-describe-null": `  if (!user) {
    return "unknown";
  }
`,
	"stats-parse-empty": `  if (typeof input !== "string" || input.trim() === "") {
    return 0;
  }
`,
	"cart-item-negative": `  if (item.quantity <= 0) {
    return 0;
  }
`,
	"cart-total-null": `  if (!cart || !cart.items) {
    return 0;
  }
`,
	"cart-discount-range": `  if (percent < 0 || percent > 100) {
    return total;
  }
`,
	"cart-unit-zero": `  if (quantity === 0) {
    return 0;
  }
`,
	"cart-first-empty": `  if (!cart.items || cart.items.length === 0) {
    return null;
  }
`,
}

var catalog = []Sample{
	{
		ID:       "stats",
		Language: "javascript",
		CorrectCode: `function average(values) {
  if (values.length === 0) {
    return 0;
  }
  let sum = 0;
  for (const v of values) {
    sum += v;
  }
  return sum / values.length;
}

function ratio(part, total) {
  if (total === 0) {
    return 0;
  }
  return part / total;
}

function nthValue(values, n) {
  if (n < 0 || n >= values.length) {
    return null;
  }
  return values[n];
}

function describe(user) {
  if (!user) {
    return "unknown";
  }
  return user.name + " (" + user.age + ")";
}

function parseCount(input) {
  if (typeof input !== "string" || input.trim() === "") {
    return 0;
  }
  return parseInt(input, 10);
}
`,
		Bugs: []Descriptor{
			{
				ID:          "stats-average-empty",
				Description: "average crashes on an empty list",
				Location:    "average",
				Difficulty:  "easy",
				Method:      "average",
			},
			{
				ID:          "stats-ratio-zero",
				Description: "ratio divides by zero when total is 0",
				Location:    "ratio",
				Difficulty:  "easy",
				Method:      "ratio",
			},
			{
				ID:          "stats-nth-bounds",
				Description: "nthValue reads out of bounds",
				Location:    "nthValue",
				Difficulty:  "medium",
				Method:      "nthValue",
			},
			{
				ID:          "stats-describe-null",
				Description: "describe dereferences a missing user",
				Location:    "describe",
				Difficulty:  "medium",
				Method:      "describe",
			},
			{
				ID:          "stats-parse-empty",
				Description: "parseCount returns NaN for empty input",
				Location:    "parseCount",
				Difficulty:  "hard",
				Method:      "parseCount",
			},
		},
		TestCases: []TestCase{
			{Method: "average", Name: "average of empty list is 0"},
			{Method: "ratio", Name: "ratio with zero total is 0"},
			{Method: "nthValue", Name: "nthValue out of range is null"},
			{Method: "describe", Name: "describe of missing user is unknown"},
			{Method: "parseCount", Name: "parseCount of blank input is 0"},
		},
	},
	{
		ID:       "cart",
		Language: "javascript",
		CorrectCode: `function itemTotal(item) {
  if (item.quantity <= 0) {
    return 0;
  }
  return item.price * item.quantity;
}

function cartTotal(cart) {
  if (!cart || !cart.items) {
    return 0;
  }
  let total = 0;
  for (const item of cart.items) {
    total += itemTotal(item);
  }
  return total;
}

function applyDiscount(total, percent) {
  if (percent < 0 || percent > 100) {
    return total;
  }
  return total - (total * percent) / 100;
}

function unitPrice(total, quantity) {
  if (quantity === 0) {
    return 0;
  }
  return total / quantity;
}

function firstItem(cart) {
  if (!cart.items || cart.items.length === 0) {
    return null;
  }
  return cart.items[0];
}
`,
		Bugs: []Descriptor{
			{
				ID:          "cart-item-negative",
				Description: "itemTotal accepts negative quantities",
				Location:    "itemTotal",
				Difficulty:  "easy",
				Method:      "itemTotal",
			},
			{
				ID:          "cart-total-null",
				Description: "cartTotal crashes on a missing cart",
				Location:    "cartTotal",
				Difficulty:  "medium",
				Method:      "cartTotal",
			},
			{
				ID:          "cart-discount-range",
				Description: "applyDiscount accepts percentages outside 0-100",
				Location:    "applyDiscount",
				Difficulty:  "medium",
				Method:      "applyDiscount",
			},
			{
				ID:          "cart-unit-zero",
				Description: "unitPrice divides by zero",
				Location:    "unitPrice",
				Difficulty:  "easy",
				Method:      "unitPrice",
			},
			{
				ID:          "cart-first-empty",
				Description: "firstItem crashes on an empty cart",
				Location:    "firstItem",
				Difficulty:  "hard",
				Method:      "firstItem",
			},
		},
		TestCases: []TestCase{
			{Method: "itemTotal", Name: "itemTotal of negative quantity is 0"},
			{Method: "cartTotal", Name: "cartTotal of missing cart is 0"},
			{Method: "applyDiscount", Name: "applyDiscount ignores out-of-range percent"},
			{Method: "unitPrice", Name: "unitPrice with zero quantity is 0"},
			{Method: "firstItem", Name: "firstItem of empty cart is null"},
		},
	},
}

// Catalog returns the static sample set.
func Catalog() []Sample {
	return catalog
}

// PickSample selects a random sample for a round.
func PickSample(rng *rand.Rand) Sample {
	return catalog[rng.Intn(len(catalog))]
}
