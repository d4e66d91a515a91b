package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Full text search on the per kind indices kept by the feed worker. Hits
// are loaded back from mongo so both engines return the same documents.
type elasticSearchEngine struct {
	es    *elasticsearch.Client
	repos map[models.Kind]repositories.ListingRepository
}

func elasticQuery(spec models.KindSpec, term string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"size":    limit,
		"_source": false,
		"query": map[string]interface{}{
			"simple_query_string": map[string]interface{}{
				"query":            term,
				"fields":           spec.SearchFields,
				"default_operator": "or",
				"lenient":          true,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{
				spec.DateField: map[string]interface{}{
					"order":         "desc",
					"unmapped_type": "date",
				},
			},
		},
	}
}

func (e *elasticSearchEngine) Search(
	ctx context.Context,
	spec models.KindSpec,
	term string,
	limit int,
) ([]models.Listing, error) {
	response, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(spec.Index),
		e.es.Search.WithBody(esutil.NewJSONReader(elasticQuery(spec, term, limit))),
	)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.IsError() {
		return nil, fmt.Errorf("elasticsearch %s: %s", spec.Index, response.Status())
	}
	var body esSearchResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return nil, err
	}

	ids := bson.A{}
	for _, hit := range body.Hits.Hits {
		if id, err := primitive.ObjectIDFromHex(hit.ID); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	repo, ok := e.repos[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("no repository for %s", spec.Kind)
	}
	return repo.Find(
		ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		repositories.FindOptions{
			Limit: int64(limit),
			Sort:  repositories.LatestSort(),
		},
	)
}

func NewElasticSearchEngine(
	es *elasticsearch.Client,
	repos map[models.Kind]repositories.ListingRepository,
) SearchEngine {
	return &elasticSearchEngine{
		es:    es,
		repos: repos,
	}
}
