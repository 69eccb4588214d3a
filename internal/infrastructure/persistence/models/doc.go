// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// domain type with ToDomain and FromDomain.
//
//   - base.go: columns shared by aggregate tables (AggregateModel)
//   - catalog.go: products, categories, sizes, size stocks and join tables
//   - promotion.go: coupons
//   - trade.go: orders and order items
//   - identity.go: users
//   - engagement.go: newsletter subscribers and contact messages
package models

// All returns every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&CategoryModel{},
		&SizeModel{},
		&ProductModel{},
		&ProductCategoryModel{},
		&ProductSizeOptionModel{},
		&ProductStockModel{},
		&CouponModel{},
		&UserModel{},
		&OrderModel{},
		&OrderItemModel{},
		&SubscriberModel{},
		&ContactMessageModel{},
	}
}
