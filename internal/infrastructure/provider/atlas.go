package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"

	"go.uber.org/zap"
)

// fetchOrderQuery is the query the Atlas frontend issues for the order
// detail view. The server resolves exactly these fields; trimming the
// selection changes what gets archived, so keep it in sync with the UI.
const fetchOrderQuery = `query fetchOrder($id: Int) {
  order(id: $id) {
    id
    type
    merchantRefId
    deliveryDate
    created
    updated
    timeSlotStart
    timeSlotEnd
    discount
    totalTaxes
    totalCharges
    subtotal
    payableAmount
    walletCreditApplied
    paymentMode
    channel
    channelLogo
    status
    instructions
    nextStates
    nextState
    couponText
    aggregatorPayload
    externalPlatform {
      id
      deliveryType
      bizPlatform {
        platform {
          name
          __typename
        }
        __typename
      }
      __typename
    }
    taxes {
      id
      title
      value
      rate
      __typename
    }
    charges {
      id
      title
      value
      rate
      __typename
    }
    address {
      id
      name
      address1
      address2
      city
      pin
      subLocality
      __typename
    }
    store {
      title
      brand {
        name
        __typename
      }
      __typename
    }
    customer {
      id
      firstName
      lastName
      phone
      email
      __typename
    }
    items {
      id
      title
      price
      quantity
      totalCharge
      totalTax
      total
      discount
      discountCode
      instructions
      taxes {
        id
        title
        value
        rate
        __typename
      }
      charges {
        id
        title
        value
        rate
        __typename
      }
      optionsToAdd {
        id
        title
        price
        priceAtLocation
        weight
        description
        __typename
      }
      orderItemOptions {
        id
        quantity
        __typename
      }
      __typename
    }
    statusUpdates {
      id
      status
      prevStatus
      message
      updatedBy {
        id
        username
        __typename
      }
      created
      __typename
    }
    delivery {
      id
      __typename
    }
    paymentTransaction {
      txnId
      amount
      gwTxnId
      state
      comments
      history
      paymentMethod
      __typename
    }
    parentOrder {
      id
      __typename
    }
    childOrderId
    __typename
  }
}`

// atlasHeaders mirrors the browser session the Atlas frontend runs in;
// the API gateway rejects requests that do not look like it.
var atlasHeaders = map[string]string{
	"accept":             "*/*",
	"accept-language":    "en-US,en;q=0.9",
	"content-type":       "application/json",
	"dnt":                "1",
	"origin":             "https://atlas.urbanpiper.com",
	"referer":            "https://atlas.urbanpiper.com/",
	"sec-ch-ua":          `"Not)A;Brand";v="8", "Chromium";v="138"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"macOS"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "same-site",
	"user-access":        "true",
	"user-agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36",
}

const bodyExcerptLimit = 500

type AtlasAPIProvider struct {
	BaseURL   string
	AuthToken string
	Cookie    string
	Client    *http.Client
	Log       *zap.Logger
}

var _ application.OrderProvider = (*AtlasAPIProvider)(nil)

type FetchErrorKind string

const (
	FetchErrTransport FetchErrorKind = "transport"
	FetchErrStatus    FetchErrorKind = "status"
	FetchErrDecode    FetchErrorKind = "decode"
)

// FetchError classifies a failed fetch so callers can report it without
// unpacking transport internals. Status is set for FetchErrStatus only.
type FetchError struct {
	OrderID domain.OrderID
	Kind    FetchErrorKind
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == FetchErrStatus && e.Status == http.StatusUnauthorized:
		return fmt.Sprintf("atlas: order %s: authentication failed (status 401)", e.OrderID)
	case e.Kind == FetchErrStatus && e.Status == http.StatusNotFound:
		return fmt.Sprintf("atlas: order %s: not found (status 404)", e.OrderID)
	case e.Kind == FetchErrStatus:
		return fmt.Sprintf("atlas: order %s: unexpected status %d", e.OrderID, e.Status)
	case e.Kind == FetchErrDecode:
		return fmt.Sprintf("atlas: order %s: decode response: %v", e.OrderID, e.Err)
	default:
		return fmt.Sprintf("atlas: order %s: do request: %v", e.OrderID, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

type fetchOrderPayload struct {
	OperationName string         `json:"operationName"`
	Variables     orderVariables `json:"variables"`
	Query         string         `json:"query"`
}

type orderVariables struct {
	ID int `json:"id"`
}

// Fetch performs exactly one GraphQL POST for id and returns the raw
// response body. It never retries; the caller decides what a failure
// means for the batch.
func (p *AtlasAPIProvider) Fetch(ctx context.Context, id domain.OrderID) (domain.Document, error) {
	if p.BaseURL == "" {
		return nil, errors.New("atlas: missing base url")
	}
	numericID, err := strconv.Atoi(string(id))
	if err != nil {
		return nil, fmt.Errorf("atlas: order id %q is not numeric: %w", id, err)
	}

	payload, err := json.Marshal(fetchOrderPayload{
		OperationName: "fetchOrder",
		Variables:     orderVariables{ID: numericID},
		Query:         fetchOrderQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("atlas: create request: %w", err)
	}
	p.setHeaders(req)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{OrderID: id, Kind: FetchErrTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{OrderID: id, Kind: FetchErrTransport, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		p.log().Warn("atlas_fetch_rejected",
			zap.String("order_id", string(id)),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", excerpt(raw)))
		return nil, &FetchError{OrderID: id, Kind: FetchErrStatus, Status: resp.StatusCode}
	}

	var doc json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		p.log().Warn("atlas_fetch_unparseable",
			zap.String("order_id", string(id)),
			zap.ByteString("body", excerpt(raw)))
		return nil, &FetchError{OrderID: id, Kind: FetchErrDecode, Err: err}
	}
	return domain.Document(doc), nil
}

// setHeaders applies credentials and the browser-session header set.
// A bearer token wins over a cookie when both are configured.
func (p *AtlasAPIProvider) setHeaders(req *http.Request) {
	if p.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.AuthToken)
	} else if p.Cookie != "" {
		req.Header.Set("Cookie", p.Cookie)
	}
	for k, v := range atlasHeaders {
		req.Header.Set(k, v)
	}
}

func (p *AtlasAPIProvider) log() *zap.Logger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop()
}

func excerpt(b []byte) []byte {
	if len(b) > bodyExcerptLimit {
		return b[:bodyExcerptLimit]
	}
	return b
}
