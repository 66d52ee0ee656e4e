package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/beevik/etree"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProductFeed exports products, highest rated first, as an XML catalog feed
func (h *Handler) ProductFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	docs, err := h.catalog.ListProductsByRatingDesc(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	doc := buildFeed(docs, time.Now().UTC())
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := doc.WriteTo(w); err != nil {
		h.log.Warnf("Failed to write product feed: %v", err)
	}
}

// buildFeed renders products as
//
//	<catalog generated="..." count="N">
//	  <product id="..."><field name="category">Salmon</field>...</product>
//	</catalog>
func buildFeed(products []models.Document, generated time.Time) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	catalog := doc.CreateElement("catalog")
	catalog.CreateAttr("generated", generated.Format(time.RFC3339))
	catalog.CreateAttr("count", strconv.Itoa(len(products)))

	for _, product := range products {
		el := catalog.CreateElement("product")
		if id, ok := product[models.FieldID]; ok {
			el.CreateAttr("id", feedValue(id))
		}

		keys := make([]string, 0, len(product))
		for k := range product {
			if k != models.FieldID {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			field := el.CreateElement("field")
			field.CreateAttr("name", k)
			field.SetText(feedValue(product[k]))
		}
	}

	doc.Indent(2)
	return doc
}

func feedValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bson.ObjectID:
		return val.Hex()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case bson.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
