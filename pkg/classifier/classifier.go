package classifier

import "strings"

// DefaultCategory is assigned when no keyword matches.
const DefaultCategory = "Others"

// Rule maps a merchant keyword to a budget category.
type Rule struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

// Classifier assigns categories by case-insensitive substring search over an
// ordered rule table. The first rule whose keyword occurs anywhere in the
// description wins, so more specific keywords ("Swiggy Instamart") must be
// listed before their prefixes ("Swiggy").
type Classifier struct {
	rules []Rule
}

func New(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		c.rules[i] = Rule{Keyword: strings.ToLower(r.Keyword), Category: r.Category}
	}
	return c
}

// Classify returns the category for a transaction description. It always
// returns a non-empty category.
func (c *Classifier) Classify(description string) string {
	if description == "" {
		return DefaultCategory
	}

	lower := strings.ToLower(description)
	for _, r := range c.rules {
		if strings.Contains(lower, r.Keyword) {
			return r.Category
		}
	}

	return DefaultCategory
}

// DefaultRules is the stock keyword table. Order matters.
func DefaultRules() []Rule {
	return []Rule{
		{"Amazon", "Amazon"},
		{"Swiggy Instamart", "Grocery"},
		{"Swiggy", "Food"},
		{"Zomato", "Food"},
		{"Zepto", "Grocery"},
		{"Blinkit", "Grocery"},
		{"Ratnadeep", "Grocery"},
		{"Apollo", "Health"},
		{"Netflix", "Netflix"},
		{"YouTube", "Youtube Subscription"},
		{"Google", "Google Subscription"},
		{"Fuel", "Fuel"},
		{"HP PAY", "Fuel"},
		{"Petrol", "Fuel"},
		{"Donation", "Donation"},
		{"Milaap", "Donation"},
		{"Akshaya", "Donation"},
		{"Nykaa", "Shopping"},
		{"Myntra", "Shopping"},
		{"BigBasket", "Grocery"},
		{"LICIOUS", "Food"},
		{"Food", "Food"},
		{"Sweet", "Food"},
		{"Cake", "Food"},
		{"Voucher", "Amex Voucher"},
		{"Yashoda", "Health"},
		{"Vijaya", "Health"},
		{"Medical", "Health"},
		{"Hospital", "Health"},
		{"Drug", "Health"},
		{"Fashion", "Shopping"},
		{"Car E GH", "Car Maintainance"},
		{"Automotive", "Car Maintainance"},
		{"ABR CAFE", "Cafe Niloufer"},
		{"CAFE NILOUFER", "Cafe Niloufer"},
		{"Dadus", "Food"},
		{"Pista", "Food"},
		{"Mixture", "Food"},
	}
}
