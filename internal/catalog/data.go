package catalog

import "github.com/shopspring/decimal"

func demoStores() []Store {
	return []Store{
		{ID: "10001", Name: "Domino's - Manhattan", Address: "123 Broadway, New York, NY 10001"},
		{ID: "95608", Name: "Domino's - Auburn", Address: "456 Main St, Auburn, CA 95608"},
	}
}

func demoMenu() []MenuItem {
	return []MenuItem{
		{Code: "M_PEPPERONI", Name: "Medium Pepperoni Pizza", Price: price("12.99"), Category: "pizza"},
		{Code: "L_MARGHERITA", Name: "Large Margherita Pizza", Price: price("15.99"), Category: "pizza"},
		{Code: "WINGS_BBQ", Name: "BBQ Wings (8pc)", Price: price("8.99"), Category: "wings"},
		{Code: "PASTA_ALFREDO", Name: "Chicken Alfredo Pasta", Price: price("10.99"), Category: "pasta"},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
