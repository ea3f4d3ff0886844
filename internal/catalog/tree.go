package catalog

// Default returns the built-in catalog tree used when no catalog file is
// configured. Order matters: traversal walks categories, subcategories and
// items exactly as listed here.
func Default() *Tree {
	return &Tree{Categories: []Category{
		{
			Name: "Apparel & Fashion",
			Subcategories: []Subcategory{
				{Name: "Men's Clothing", Items: []Item{"T-Shirts", "Shirts", "Jeans", "Suits", "Jackets", "Underwear"}},
				{Name: "Women's Clothing", Items: []Item{"Dresses", "Tops", "Jeans", "Skirts", "Abayas", "Suits"}},
				{Name: "Children's Clothing", Items: []Item{"Babywear", "Boys' Clothing", "Girls' Clothing"}},
				{Name: "Fashion Accessories", Items: []Item{"Belts", "Scarves", "Hats", "Sunglasses", "Gloves", "Ties"}},
				{Name: "Footwear", Items: []Item{"Men's", "Women's", "Kids'", "Sports", "Formal", "Casual"}},
			},
		},
		{
			Name: "Electronics & Appliances",
			Subcategories: []Subcategory{
				{Name: "Consumer Electronics", Items: []Item{"Smartphones", "TVs", "Cameras", "Audio Equipment"}},
				{Name: "Home Appliances", Items: []Item{"Refrigerators", "Washing Machines", "Ovens", "Microwaves"}},
				{Name: "Computer & Office Equipment", Items: []Item{"Laptops", "Monitors", "Printers", "Networking Devices"}},
				{Name: "Electrical Components", Items: []Item{"Cables", "Switches", "Batteries", "Lighting"}},
			},
		},
		{
			Name: "Home & Garden",
			Subcategories: []Subcategory{
				{Name: "Furniture", Items: []Item{"Living Room", "Bedroom", "Outdoor", "Office"}},
				{Name: "Home Decor", Items: []Item{"Wall Art", "Clocks", "Curtains", "Rugs", "Mirrors"}},
				{Name: "Kitchenware", Items: []Item{"Cookware", "Utensils", "Storage", "Small Appliances"}},
				{Name: "Gardening Supplies", Items: []Item{"Pots", "Plants", "Seeds", "Tools", "Irrigation"}},
				{Name: "Cleaning & Utility", Items: []Item{"Tools", "Supplies", "Vacuums", "Organizers"}},
			},
		},
		{
			Name: "Beauty & Personal Care",
			Subcategories: []Subcategory{
				{Name: "Skincare", Items: []Item{"Creams", "Serums", "Face Wash", "Masks"}},
				{Name: "Haircare", Items: []Item{"Shampoos", "Conditioners", "Styling Products"}},
				{Name: "Makeup", Items: []Item{"Lipstick", "Foundation", "Eyeshadow", "Brushes"}},
				{Name: "Fragrances", Items: []Item{"Perfumes", "Colognes", "Deodorants"}},
				{Name: "Personal Hygiene", Items: []Item{"Soaps", "Sanitary Products", "Toothpaste", "Razors"}},
			},
		},
		{
			Name: "Health & Wellness",
			Subcategories: []Subcategory{
				{Name: "Vitamins & Supplements", Items: []Item{"Vitamins & Supplements"}},
				{Name: "Medical Supplies", Items: []Item{"PPE", "Thermometers", "First Aid Kits"}},
				{Name: "Fitness Equipment", Items: []Item{"Weights", "Yoga Mats", "Resistance Bands"}},
				{Name: "Herbal & Natural Remedies", Items: []Item{"Herbal & Natural Remedies"}},
				{Name: "Massage & Relaxation Tools", Items: []Item{"Massage & Relaxation Tools"}},
			},
		},
		{
			Name: "Food & Beverages",
			Subcategories: []Subcategory{
				{Name: "Packaged Foods", Items: []Item{"Snacks", "Canned Goods", "Cereals", "Instant Noodles"}},
				{Name: "Beverages", Items: []Item{"Tea", "Coffee", "Juices", "Soft Drinks", "Energy Drinks"}},
				{Name: "Fresh Produce", Items: []Item{"Fruits", "Vegetables", "Meat", "Seafood"}},
				{Name: "Gourmet & Organic Foods", Items: []Item{"Gourmet & Organic Foods"}},
				{Name: "Spices & Condiments", Items: []Item{"Spices & Condiments"}},
			},
		},
		{
			Name: "Baby & Kids",
			Subcategories: []Subcategory{
				{Name: "Baby Clothing & Accessories", Items: []Item{"Baby Clothing & Accessories"}},
				{Name: "Diapers & Wipes", Items: []Item{"Diapers & Wipes"}},
				{Name: "Feeding Supplies", Items: []Item{"Bottles", "Sippy Cups", "Food Warmers"}},
				{Name: "Toys & Games", Items: []Item{"Toys & Games"}},
				{Name: "Strollers, Car Seats, Furniture", Items: []Item{"Strollers, Car Seats, Furniture"}},
			},
		},
		{
			Name: "Toys, Hobbies & DIY",
			Subcategories: []Subcategory{
				{Name: "Educational Toys", Items: []Item{"Educational Toys"}},
				{Name: "Outdoor Toys", Items: []Item{"Outdoor Toys"}},
				{Name: "Board Games & Puzzles", Items: []Item{"Board Games & Puzzles"}},
				{Name: "DIY Tools", Items: []Item{"Power Tools", "Hand Tools", "Kits"}},
				{Name: "Craft Supplies", Items: []Item{"Paint", "Beads", "Fabrics", "Brushes"}},
			},
		},
		{
			Name: "Sports & Outdoor",
			Subcategories: []Subcategory{
				{Name: "Sportswear", Items: []Item{"Sportswear"}},
				{Name: "Footwear", Items: []Item{"Footwear"}},
				{Name: "Fitness Gear", Items: []Item{"Fitness Gear"}},
				{Name: "Camping & Hiking", Items: []Item{"Camping & Hiking"}},
				{Name: "Bicycles & Accessories", Items: []Item{"Bicycles & Accessories"}},
				{Name: "Team Sports Equipment", Items: []Item{"Team Sports Equipment"}},
			},
		},
		{
			Name: "Automotive & Motorcycle",
			Subcategories: []Subcategory{
				{Name: "Auto Parts", Items: []Item{"Tires", "Brakes", "Engine Components"}},
				{Name: "Motorbike Accessories", Items: []Item{"Motorbike Accessories"}},
				{Name: "Car Electronics", Items: []Item{"Stereos", "Dashcams", "GPS"}},
				{Name: "Oils & Fluids", Items: []Item{"Oils & Fluids"}},
				{Name: "Car Care & Maintenance", Items: []Item{"Car Care & Maintenance"}},
			},
		},
		{
			Name: "Industrial & Machinery",
			Subcategories: []Subcategory{
				{Name: "Construction Equipment", Items: []Item{"Construction Equipment"}},
				{Name: "Manufacturing Tools", Items: []Item{"Manufacturing Tools"}},
				{Name: "Farming Equipment", Items: []Item{"Farming Equipment"}},
				{Name: "Safety Gear", Items: []Item{"Safety Gear"}},
				{Name: "Pipes, Valves & Fittings", Items: []Item{"Pipes, Valves & Fittings"}},
			},
		},
		{
			Name: "Office & School Supplies",
			Subcategories: []Subcategory{
				{Name: "Stationery", Items: []Item{"Stationery"}},
				{Name: "Office Furniture", Items: []Item{"Office Furniture"}},
				{Name: "Printers & Supplies", Items: []Item{"Printers & Supplies"}},
				{Name: "School Backpacks & Kits", Items: []Item{"School Backpacks & Kits"}},
				{Name: "Notebooks, Files & Folders", Items: []Item{"Notebooks, Files & Folders"}},
			},
		},
		{
			Name: "Jewelry & Watches",
			Subcategories: []Subcategory{
				{Name: "Gold, Silver, Platinum", Items: []Item{"Gold, Silver, Platinum"}},
				{Name: "Fashion Jewelry", Items: []Item{"Fashion Jewelry"}},
				{Name: "Watches", Items: []Item{"Smartwatches", "Luxury", "Casual"}},
				{Name: "Body Jewelry", Items: []Item{"Body Jewelry"}},
				{Name: "Custom & Handmade Pieces", Items: []Item{"Custom & Handmade Pieces"}},
			},
		},
		{
			Name: "Luggage & Travel",
			Subcategories: []Subcategory{
				{Name: "Suitcases & Bags", Items: []Item{"Suitcases & Bags"}},
				{Name: "Backpacks", Items: []Item{"Backpacks"}},
				{Name: "Travel Accessories", Items: []Item{"Adapters", "Organizers", "Locks"}},
			},
		},
		{
			Name: "Pet Supplies",
			Subcategories: []Subcategory{
				{Name: "Dog Supplies", Items: []Item{"Dog Supplies"}},
				{Name: "Cat Supplies", Items: []Item{"Cat Supplies"}},
				{Name: "Pet Food", Items: []Item{"Pet Food"}},
				{Name: "Pet Toys & Grooming", Items: []Item{"Pet Toys & Grooming"}},
				{Name: "Aquarium & Bird Supplies", Items: []Item{"Aquarium & Bird Supplies"}},
			},
		},
		{
			Name: "Gifts & Occasions",
			Subcategories: []Subcategory{
				{Name: "Seasonal Gifts", Items: []Item{"Christmas", "Eid", "Diwali", "Chinese New Year"}},
				{Name: "Party Supplies", Items: []Item{"Party Supplies"}},
				{Name: "Gift Wrapping", Items: []Item{"Gift Wrapping"}},
				{Name: "Customizable Gifts", Items: []Item{"Customizable Gifts"}},
				{Name: "Wedding & Event Decor", Items: []Item{"Wedding & Event Decor"}},
			},
		},
	}}
}
