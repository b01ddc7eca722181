package valuesets

import (
	"context"
	"errors"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genderExpansion = `{
	"resourceType": "ValueSet",
	"expansion": {
		"contains": [
			{"system": "http://hl7.org/fhir/administrative-gender", "code": "male", "display": "Male"},
			{"system": "http://hl7.org/fhir/administrative-gender", "code": "female", "display": "Female"}
		]
	}
}`

func TestValueSetFhirClient(t *testing.T) {
	t.Run("Expand Fills Missing ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ValueSet/gender/$expand", r.URL.Path)
			w.Write([]byte(genderExpansion))
		}))
		defer server.Close()

		client := NewValueSetFhirClient(server.URL+"/", time.Second)
		result, err := client.ExpandValueSet(context.Background(), "gender")
		require.NoError(t, err)
		assert.Equal(t, "gender", result.ID)
		require.Len(t, result.Codings(), 2)
		assert.Equal(t, "female", result.Codings()[1].Code)
	})

	t.Run("Find By ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ValueSet/marital", r.URL.Path)
			w.Write([]byte(`{"resourceType":"ValueSet","id":"marital"}`))
		}))
		defer server.Close()

		client := NewValueSetFhirClient(server.URL+"/", time.Second)
		result, err := client.FindValueSetByID(context.Background(), "marital")
		require.NoError(t, err)
		assert.Equal(t, "marital", result.ID)
		assert.Empty(t, result.Codings())
	})

	t.Run("Missing Value Set", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewValueSetFhirClient(server.URL+"/", time.Second)
		_, err := client.ExpandValueSet(context.Background(), "unknown")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"resourceType":`))
		}))
		defer server.Close()

		client := NewValueSetFhirClient(server.URL+"/", time.Second)
		_, err := client.FindValueSetByID(context.Background(), "gender")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
	})
}
