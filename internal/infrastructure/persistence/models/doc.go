// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain stays free of ORM tags;
// each model has ToDomain and FromDomain mappers used by the repositories.
//
// Tables:
//   - products, stock_movements (catalog.go, inventory.go)
//   - carts, cart_items (cart.go)
//   - orders, order_items, order_timeline (order.go)
package models
