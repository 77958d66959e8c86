// recompute-orders rebuilds order-level aggregates from each order's
// snapshot lines using the canonical pricing formulas. Aggregates written
// by older code drifted (two checkout implementations disagreed on
// profit); this tool is the only sanctioned way they change after
// creation.
//
//	go run ./cmd/recompute-orders          # rewrite drifted orders
//	go run ./cmd/recompute-orders -dry-run # report only
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"time"

	"github.com/RyanHasanSunny/ecommerce-backend-go/config"
	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/RyanHasanSunny/ecommerce-backend-go/pricing"
	"go.mongodb.org/mongo-driver/bson"
)

const epsilon = 0.009 // below half a poysha, treat as equal

func main() {
	dryRun := flag.Bool("dry-run", false, "report drifted orders without writing")
	flag.Parse()

	config.LoadEnv()
	if err := database.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	orders := database.DB.Collection("orders")
	cursor, err := orders.Find(ctx, bson.M{})
	if err != nil {
		log.Fatal("Failed to fetch orders:", err)
	}
	defer cursor.Close(ctx)

	var scanned, drifted, updated int
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			log.Printf("Skipping undecodable order: %v", err)
			continue
		}
		scanned++

		// Recompute line profit with the canonical formula, then the
		// aggregates over the corrected lines.
		lines := make([]models.OrderItem, len(order.Items))
		copy(lines, order.Items)
		for i := range lines {
			lines[i].Profit = lines[i].FinalPrice - lines[i].UnitPrice
			lines[i].TotalPrice = lines[i].FinalPrice * float64(lines[i].Quantity)
		}

		totals := pricing.Aggregate(lines, order.DiscountAmount, order.DeliveryCharge, order.ExtraCharge)

		if !drifts(order, totals, lines) {
			continue
		}
		drifted++

		if *dryRun {
			log.Printf("order %s: totalAmount %.2f -> %.2f, netProfit %.2f -> %.2f",
				order.ID.Hex(), order.TotalAmount, totals.TotalAmount, order.NetProfit, totals.NetProfit)
			continue
		}

		// Rebalance the payment split against the corrected total so
		// paid + due == total stays true. A total that shrank below the
		// recorded paid amount caps paid at the total.
		paid, due := rebalance(totals.TotalAmount, order.PaidAmount)

		_, err := orders.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": bson.M{
			"items":                      lines,
			"subtotal":                   totals.Subtotal,
			"totalUnitPrice":             totals.TotalUnitPrice,
			"totalProfit":                totals.TotalProfit,
			"totalProductDeliveryCharge": totals.TotalProductDeliveryCharge,
			"totalSellingPrice":          totals.TotalSellingPrice,
			"totalOfferValue":            totals.TotalOfferValue,
			"netProfit":                  totals.NetProfit,
			"totalAmount":                totals.TotalAmount,
			"paidAmount":                 paid,
			"dueAmount":                  due,
			"updatedAt":                  time.Now(),
		}})
		if err != nil {
			log.Printf("order %s: update failed: %v", order.ID.Hex(), err)
			continue
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		log.Fatal("Cursor error:", err)
	}

	log.Printf("scanned %d orders, %d drifted, %d updated", scanned, drifted, updated)
}

// rebalance fits a recorded paid amount to a corrected total: paid never
// exceeds the total, and paid + due always equals it.
func rebalance(total, paid float64) (float64, float64) {
	if paid < 0 {
		paid = 0
	}
	if paid > total {
		paid = total
	}
	return paid, total - paid
}

func drifts(order models.Order, totals pricing.Totals, lines []models.OrderItem) bool {
	if differs(order.Subtotal, totals.Subtotal) ||
		differs(order.TotalUnitPrice, totals.TotalUnitPrice) ||
		differs(order.TotalProfit, totals.TotalProfit) ||
		differs(order.TotalSellingPrice, totals.TotalSellingPrice) ||
		differs(order.TotalOfferValue, totals.TotalOfferValue) ||
		differs(order.NetProfit, totals.NetProfit) ||
		differs(order.TotalAmount, totals.TotalAmount) {
		return true
	}
	for i := range lines {
		if differs(order.Items[i].Profit, lines[i].Profit) ||
			differs(order.Items[i].TotalPrice, lines[i].TotalPrice) {
			return true
		}
	}
	return false
}

func differs(a, b float64) bool {
	return math.Abs(a-b) > epsilon
}
