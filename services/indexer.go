package services

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const REINDEX_BATCH = 500

type IndexStats struct {
	Indexed int64 `json:"indexed"`
	Failed  int64 `json:"failed"`
}

// IndexerService mirrors listings into elasticsearch.
type IndexerService struct {
	es     *elasticsearch.Client
	logger *zap.Logger
}

// IndexDocument is the body sent to elasticsearch: the listing JSON
// without its id, which becomes the document id.
func IndexDocument(listing models.Listing) ([]byte, error) {
	data, err := json.Marshal(listing)
	if err != nil {
		return nil, err
	}
	var document map[string]interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	delete(document, "_id")
	document["kind"] = listing.Kind()
	return json.Marshal(document)
}

func (i *IndexerService) newBulk(index string) (esutil.BulkIndexer, error) {
	return esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         index,
		Client:        i.es,
		NumWorkers:    db.NUM_WORKERS,
		FlushBytes:    int(db.FLUSH_BYTES),
		FlushInterval: db.FLUSH_INTERVAL,
		OnError: func(ctx context.Context, err error) {
			i.logger.Error("bulk indexer", zap.String("index", index), zap.Error(err))
		},
	})
}

func (i *IndexerService) add(
	ctx context.Context,
	bi esutil.BulkIndexer,
	index string,
	listing models.Listing,
	stats *IndexStats,
) error {
	body, err := IndexDocument(listing)
	if err != nil {
		return err
	}
	return bi.Add(ctx, esutil.BulkIndexerItem{
		Action:     "index",
		DocumentID: listing.Base().ID.Hex(),
		Body:       bytes.NewReader(body),
		OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
			atomic.AddInt64(&stats.Indexed, 1)
			metrics.IndexOperations.WithLabelValues(index, "success").Inc()
		},
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			atomic.AddInt64(&stats.Failed, 1)
			metrics.IndexOperations.WithLabelValues(index, "error").Inc()
			if err == nil {
				i.logger.Error("index document", zap.String("id", item.DocumentID), zap.String("reason", res.Error.Reason))
			} else {
				i.logger.Error("index document", zap.String("id", item.DocumentID), zap.Error(err))
			}
		},
	})
}

func (i *IndexerService) Index(ctx context.Context, listings ...models.Listing) (*IndexStats, error) {
	stats := &IndexStats{}
	byIndex := make(map[string][]models.Listing)
	for _, listing := range listings {
		index := models.MustKind(listing.Kind()).Index
		byIndex[index] = append(byIndex[index], listing)
	}
	for index, group := range byIndex {
		bi, err := i.newBulk(index)
		if err != nil {
			return stats, err
		}
		for _, listing := range group {
			if err := i.add(ctx, bi, index, listing, stats); err != nil {
				bi.Close(ctx)
				return stats, err
			}
		}
		if err := bi.Close(ctx); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (i *IndexerService) Delete(ctx context.Context, kind models.Kind, id string) error {
	index := models.MustKind(kind).Index
	bi, err := i.newBulk(index)
	if err != nil {
		return err
	}
	if err := bi.Add(ctx, esutil.BulkIndexerItem{
		Action:     "delete",
		DocumentID: id,
	}); err != nil {
		bi.Close(ctx)
		return err
	}
	return bi.Close(ctx)
}

// Reindex walks a collection in _id order and indexes every document.
func (i *IndexerService) Reindex(ctx context.Context, repo repositories.ListingRepository) (*IndexStats, error) {
	index := repo.Spec().Index
	stats := &IndexStats{}
	bi, err := i.newBulk(index)
	if err != nil {
		return stats, err
	}
	lastID := primitive.NilObjectID
	for {
		filter := bson.D{}
		if !lastID.IsZero() {
			filter = bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: lastID}}}}
		}
		batch, err := repo.Find(ctx, filter, repositories.FindOptions{
			Limit: REINDEX_BATCH,
			Sort:  bson.D{{Key: "_id", Value: 1}},
		})
		if err != nil {
			bi.Close(ctx)
			return stats, err
		}
		for _, listing := range batch {
			if err := i.add(ctx, bi, index, listing, stats); err != nil {
				bi.Close(ctx)
				return stats, err
			}
			lastID = listing.Base().ID
		}
		if len(batch) < REINDEX_BATCH {
			break
		}
	}
	if err := bi.Close(ctx); err != nil {
		return stats, err
	}
	i.logger.Info(
		"reindexed",
		zap.String("index", index),
		zap.Int64("indexed", stats.Indexed),
		zap.Int64("failed", stats.Failed),
	)
	return stats, nil
}

func NewIndexerService(es *elasticsearch.Client, logger *zap.Logger) *IndexerService {
	return &IndexerService{
		es:     es,
		logger: nopLogger(logger),
	}
}
