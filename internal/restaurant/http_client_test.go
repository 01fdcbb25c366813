package restaurant

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"dishpatch-be/internal/money"
	"dishpatch-be/internal/resilience"

	"github.com/stretchr/testify/assert"
)

type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestHTTPClient_Get(t *testing.T) {
	c := NewHTTPClient("https://restaurants.example.com")

	t.Run("Success", func(t *testing.T) {
		c.client.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, "https://restaurants.example.com/v1/restaurants/rest-1", req.URL.String())

			return jsonResponse(http.StatusOK, `{
				"id": "rest-1",
				"name": "Testaurant",
				"menu": [{"id": "M1", "name": "Burger", "price": 1000}]
			}`)
		})

		info, err := c.Get(context.Background(), "rest-1")
		assert.NoError(t, err)
		assert.Equal(t, "Testaurant", info.Name)
		assert.Len(t, info.Menu, 1)
		assert.Equal(t, money.Cents(1000), info.Menu[0].Price)
	})

	t.Run("ServerErrorIsTransient", func(t *testing.T) {
		c.client.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusInternalServerError, `{}`)
		})

		_, err := c.Get(context.Background(), "rest-1")
		assert.True(t, resilience.IsTransient(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		c.client.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusNotFound, `{}`)
		})

		_, err := c.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, resilience.IsTransient(err))
	})

	t.Run("NetworkErrorIsTransient", func(t *testing.T) {
		c.client.Transport = MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		})

		_, err := c.Get(context.Background(), "rest-1")
		assert.True(t, resilience.IsTransient(err))
	})
}

func TestHTTPClient_GetItem(t *testing.T) {
	c := NewHTTPClient("https://restaurants.example.com")

	t.Run("Success", func(t *testing.T) {
		c.client.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "https://restaurants.example.com/v1/restaurants/rest-1/menu-items/M1", req.URL.String())

			return jsonResponse(http.StatusOK, `{"id": "M1", "name": "Burger", "price": 1000}`)
		})

		item, err := c.GetItem(context.Background(), "rest-1", "M1")
		assert.NoError(t, err)
		assert.Equal(t, "Burger", item.Name)
		assert.Equal(t, money.Cents(1000), item.Price)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		c.client.Transport = MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusNotFound, `{}`)
		})

		_, err := c.GetItem(context.Background(), "rest-1", "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
