package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"store-locator/internal/domain"
	"store-locator/internal/platform/obs"
	"strings"

	"github.com/olivere/elastic/v7"
)

const storeIndexMapping = `{
	"settings": { "number_of_shards": 1 },
	"mappings": {
		"properties": {
			"storeName": { "type": "text" },
			"address1": { "type": "text" },
			"address2": { "type": "text" },
			"location": { "type": "geo_point" },
			"minimumPurchase": { "type": "double" },
			"chargeFlat": { "type": "double" },
			"chargePercent": { "type": "double" }
		}
	}
}`

// storeDoc is the indexed form of a Store.
type storeDoc struct {
	StoreName       string           `json:"storeName"`
	Address1        string           `json:"address1"`
	Address2        *string          `json:"address2,omitempty"`
	Location        elastic.GeoPoint `json:"location"`
	MinimumPurchase *float64         `json:"minimumPurchase,omitempty"`
	ChargeFlat      *float64         `json:"chargeFlat,omitempty"`
	ChargePercent   *float64         `json:"chargePercent,omitempty"`
}

func newStoreDoc(s domain.Store) storeDoc {
	return storeDoc{
		StoreName:       s.Name,
		Address1:        s.Address1,
		Address2:        s.Address2,
		Location:        elastic.GeoPoint{Lat: s.Lat, Lon: s.Lng},
		MinimumPurchase: s.MinimumPurchase,
		ChargeFlat:      s.FlatFee,
		ChargePercent:   s.PercentFee,
	}
}

func (d storeDoc) toDomain(id string) domain.Store {
	return domain.Store{
		ID:              id,
		Name:            d.StoreName,
		Address1:        d.Address1,
		Address2:        d.Address2,
		Lat:             d.Location.Lat,
		Lng:             d.Location.Lon,
		MinimumPurchase: d.MinimumPurchase,
		FlatFee:         d.ChargeFlat,
		PercentFee:      d.ChargePercent,
	}
}

// Elasticsearch-backed implementation of the StoreRepository port using a
// geo_point field and bounding box queries.
type ElasticStoreRepository struct {
	Client *elastic.Client
	Index  string
}

// NewElasticStoreRepository connects to a single node without sniffing.
// httpClient may be nil.
func NewElasticStoreRepository(url, index string, httpClient *http.Client) (*ElasticStoreRepository, error) {
	if strings.TrimSpace(index) == "" {
		return nil, errors.New("elastic store repository: index is required")
	}

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	}
	if httpClient != nil {
		opts = append(opts, elastic.SetHttpClient(httpClient))
	}

	client, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("elastic store repository: create client for %q: %w", url, err)
	}
	return &ElasticStoreRepository{Client: client, Index: index}, nil
}

// EnsureIndex creates the store index with its geo mapping when missing.
func (es *ElasticStoreRepository) EnsureIndex(ctx context.Context) error {
	exists, err := es.Client.IndexExists(es.Index).Do(ctx)
	if err != nil {
		return fmt.Errorf("ensure index %q: check exists: %w", es.Index, err)
	}
	if exists {
		return nil
	}

	res, err := es.Client.CreateIndex(es.Index).BodyString(storeIndexMapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("ensure index %q: create: %w", es.Index, err)
	}
	if !res.Acknowledged {
		obs.Logger().Warnw("create index not acknowledged", "index", es.Index)
	}
	return nil
}

// IndexStores bulk-indexes stores keyed by id, replacing existing documents.
func (es *ElasticStoreRepository) IndexStores(ctx context.Context, stores []domain.Store) (err error) {
	defer obs.Time(ctx, "stores.elastic.IndexStores")(&err)

	if len(stores) == 0 {
		return nil
	}

	bulk := es.Client.Bulk().Index(es.Index).Refresh("true")
	for _, s := range stores {
		bulk = bulk.Add(elastic.NewBulkIndexRequest().Id(s.ID).Doc(newStoreDoc(s)))
	}

	res, err := bulk.Do(ctx)
	if err != nil {
		return fmt.Errorf("index stores: bulk request: %w", err)
	}

	if failed := res.Failed(); len(failed) > 0 {
		reason := "unknown"
		if failed[0].Error != nil {
			reason = failed[0].Error.Reason
		}
		return fmt.Errorf("index stores: %d of %d operations failed, first id=%s: %s",
			len(failed), len(stores), failed[0].Id, reason)
	}
	return nil
}

// Return stores inside bounds ordered by id, at most limit documents.
func (es *ElasticStoreRepository) StoresInBounds(
	ctx context.Context,
	bounds domain.Bounds,
	limit int,
) (_ []domain.Store, err error) {
	defer obs.Time(ctx, "stores.elastic.StoresInBounds")(&err)

	if limit < 1 {
		return nil, fmt.Errorf("stores in bounds: invalid limit %d", limit)
	}

	box := elastic.NewGeoBoundingBoxQuery("location").
		TopLeft(bounds.MaxLat, bounds.MinLng).
		BottomRight(bounds.MinLat, bounds.MaxLng)

	res, err := es.Client.Search().
		Index(es.Index).
		Query(elastic.NewBoolQuery().Filter(box)).
		Sort("_id", true).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("stores in bounds: search %q: %w", es.Index, err)
	}

	stores := make([]domain.Store, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc storeDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("stores in bounds: decode hit %s: %w", hit.Id, err)
		}
		stores = append(stores, doc.toDomain(hit.Id))
	}

	return stores, nil
}
