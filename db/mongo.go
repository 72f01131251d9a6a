package db

import (
	"context"
	"fmt"
	"time"

	"agrisense/utils"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

const climatologyCollection = "rainfall_climatology"

func NewMongoClient(uri, dbName string) (*MongoClient, error) {
	logger := utils.GetLogger()

	// Retry connecting with exponential backoff; Mongo may still be
	// starting when the service comes up.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client *mongo.Client
	err := backoff.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(ctx)
			return err
		}
		client = c
		return nil
	}, backoff.WithMaxRetries(bo, 4))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB after retries: %s", err)
	}

	mc := &MongoClient{client: client, db: client.Database(dbName)}
	if err := mc.seedClimatology(context.Background()); err != nil {
		return nil, fmt.Errorf("error seeding climatology collection: %s", err)
	}

	logger.Info("connected to MongoDB", "db", dbName)
	return mc, nil
}

type climatologyDoc struct {
	District   string  `bson:"district"`
	Month      int     `bson:"month"`
	RainfallMM float64 `bson:"rainfall_mm"`
}

func (c *MongoClient) seedClimatology(ctx context.Context) error {
	col := c.db.Collection(climatologyCollection)

	count, err := col.CountDocuments(ctx, bson.M{"district": "default"})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, 12)
	for month := time.January; month <= time.December; month++ {
		docs = append(docs, climatologyDoc{
			District:   "default",
			Month:      int(month),
			RainfallMM: defaultMonthlyRainfall[month],
		})
	}
	_, err = col.InsertMany(ctx, docs)
	return err
}

func (c *MongoClient) MonthlyAverage(ctx context.Context, district string, month time.Month) (float64, bool, error) {
	col := c.db.Collection(climatologyCollection)
	district = normalizeDistrict(district)

	var doc climatologyDoc
	err := col.FindOne(ctx, bson.M{"district": district, "month": int(month)}).Decode(&doc)
	if err == mongo.ErrNoDocuments && district != "default" {
		err = col.FindOne(ctx, bson.M{"district": "default", "month": int(month)}).Decode(&doc)
	}
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error querying climatology: %s", err)
	}
	return doc.RainfallMM, true, nil
}

func (c *MongoClient) UpsertMonthlyAverage(ctx context.Context, district string, month time.Month, rainfallMM float64) error {
	col := c.db.Collection(climatologyCollection)
	filter := bson.M{"district": normalizeDistrict(district), "month": int(month)}
	update := bson.M{"$set": bson.M{"rainfall_mm": rainfallMM}}

	_, err := col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting climatology: %s", err)
	}
	return nil
}

func (c *MongoClient) Close() error {
	if c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
