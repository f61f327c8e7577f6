package database

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"olist-benchmark/internal/config"
	"olist-benchmark/internal/workloads/olist"
)

type MongoDriver struct {
	uri      string
	database string
}

func (md *MongoDriver) Name() string { return "mongo" }

func (md *MongoDriver) Connect(ctx context.Context) (Conn, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(md.uri).SetMaxPoolSize(1))
	if err != nil {
		return nil, err
	}
	// mongo.Connect is lazy; ping so an unreachable server fails here and
	// not on the first query.
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return &mongoConn{client: client, db: client.Database(md.database)}, nil
}

type mongoConn struct {
	client *mongo.Client
	db     *mongo.Database
}

func (mc *mongoConn) Query(ctx context.Context, query string) (int, error) {
	run, err := parseMongoQuery(query)
	if err != nil {
		return 0, err
	}
	return run(ctx, mc.db)
}

func (mc *mongoConn) Close(ctx context.Context) error {
	return mc.client.Disconnect(ctx)
}

type mongoQuery func(ctx context.Context, db *mongo.Database) (int, error)

var mongoQueries = map[string]mongoQuery{
	olist.CatalogLookup:  mongoCatalogLookup,
	olist.CustomerOrders: mongoCustomerOrders,
	olist.OrderAnalytics: mongoOrderAnalytics,
}

// parseMongoQuery maps the SQL text of a catalog query onto the equivalent
// document query over the imported Olist collections.
func parseMongoQuery(query string) (mongoQuery, error) {
	for _, q := range olist.Queries() {
		if q.SQL != query {
			continue
		}
		if run, ok := mongoQueries[q.Name]; ok {
			return run, nil
		}
	}
	return nil, errors.New("query has no mongo equivalent")
}

func mongoCatalogLookup(ctx context.Context, db *mongo.Database) (int, error) {
	opts := options.Find().
		SetLimit(50).
		SetProjection(bson.M{"product_id": 1, "product_category_name": 1, "product_weight_g": 1})
	cursor, err := db.Collection("products").Find(ctx, bson.M{"product_category_name": "beleza_saude"}, opts)
	if err != nil {
		return 0, err
	}
	return drain(ctx, cursor)
}

func mongoCustomerOrders(ctx context.Context, db *mongo.Database) (int, error) {
	var customer struct {
		CustomerID string `bson:"customer_id"`
	}
	err := db.Collection("customers").
		FindOne(ctx, bson.M{}, options.FindOne().SetSkip(100).SetProjection(bson.M{"customer_id": 1})).
		Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// The SQL subquery yields NULL and matches nothing.
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	opts := options.Find().
		SetLimit(10).
		SetProjection(bson.M{"order_id": 1, "order_status": 1, "order_purchase_timestamp": 1})
	cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer_id": customer.CustomerID}, opts)
	if err != nil {
		return 0, err
	}
	return drain(ctx, cursor)
}

func mongoOrderAnalytics(ctx context.Context, db *mongo.Database) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"price": bson.M{"$gt": 20}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "product_id",
			"foreignField": "product_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$product.product_category_name",
			"order_count": bson.M{"$sum": 1},
			"avg_price":   bson.M{"$avg": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "order_count", Value: -1}}}},
		{{Key: "$limit", Value: 10}},
	}
	cursor, err := db.Collection("order_items").Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	return drain(ctx, cursor)
}

func drain(ctx context.Context, cursor *mongo.Cursor) (int, error) {
	defer cursor.Close(ctx)

	n := 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return n, err
		}
		n++
	}
	return n, cursor.Err()
}

func MongoURI(cfg config.Database) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String()
}
