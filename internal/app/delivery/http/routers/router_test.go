package routers

import (
	"fhirstarter-service/internal/app/config"
	"fhirstarter-service/internal/app/delivery/http/controllers"
	"fhirstarter-service/internal/app/delivery/http/middlewares"
	"fhirstarter-service/internal/app/services/core/forms"
	"fhirstarter-service/internal/app/services/core/valuesets"
	"fhirstarter-service/internal/app/services/fhir_spark/questionnaire_answers"
	"fhirstarter-service/internal/app/services/fhir_spark/questionnaires"
	fhirValueSets "fhirstarter-service/internal/app/services/fhir_spark/valuesets"
	"fhirstarter-service/internal/app/services/shared/events"
	"fhirstarter-service/internal/app/services/shared/locker"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/utils"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "router-test-secret"

	intakeQuestionnaireJSON = `{
		"resourceType": "Questionnaire",
		"id": "intake",
		"group": {
			"linkId": "Patient",
			"group": [
				{
					"linkId": "Patient.details",
					"question": [
						{"linkId": "Patient.birthDate", "type": "date", "text": "Birth date"}
					]
				},
				{
					"linkId": "Patient.contact",
					"repeats": true,
					"question": [
						{"linkId": "Patient.contact.name", "type": "string"}
					]
				}
			]
		}
	}`
)

type fakeFhirServer struct {
	mu     sync.Mutex
	posted map[string]interface{}
}

func (s *fakeFhirServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/fhir/Questionnaire/intake", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
		io.WriteString(w, intakeQuestionnaireJSON)
	})
	mux.HandleFunc("/fhir/$qa-post", func(w http.ResponseWriter, r *http.Request) {
		body := make(map[string]interface{})
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.mu.Lock()
		s.posted = body
		s.mu.Unlock()
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"resourceType":"OperationOutcome","issue":[{"severity":"information","code":"informational"}]}`)
	})
	return mux
}

func newTestServer(t *testing.T) (*chi.Mux, *fakeFhirServer) {
	t.Helper()
	fhir := &fakeFhirServer{}
	fhirServer := httptest.NewServer(fhir.handler(t))
	t.Cleanup(fhirServer.Close)

	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:             "api",
			Version:                    "v1",
			RequestTimeoutInSeconds:    5,
			RequestBodyLimitInMegabyte: 1,
		},
		FHIR: config.AppFHIR{BaseUrl: fhirServer.URL + "/fhir/"},
		JWT:  config.AppJWT{Secret: testSecret, ExpTimeInHour: 1},
		Form: config.AppForm{SessionTTLInMinutes: 5, AttachmentMaxSizeInMB: 1},
	}

	timeout := 5 * time.Second
	questionnaireFhirClient := questionnaires.NewQuestionnaireFhirClient(internalConfig.FHIR.BaseUrl, timeout)
	answerFhirClient := questionnaire_answers.NewQuestionnaireAnswerFhirClient(internalConfig.FHIR.BaseUrl, timeout)
	valueSetUsecase := valuesets.NewValueSetUsecase(fhirValueSets.NewValueSetFhirClient(internalConfig.FHIR.BaseUrl, timeout), nil, 0, logger)
	formUsecase := forms.NewFormUsecase(questionnaireFhirClient, answerFhirClient, valueSetUsecase, nil, events.NewLogPublisher(logger), locker.NewLocalLockService(), internalConfig, logger)

	formController := &controllers.FormController{
		Log:            logger,
		FormUsecase:    formUsecase,
		InternalConfig: internalConfig,
	}

	router := chi.NewRouter()
	SetupRoutes(router, internalConfig, middlewares.NewMiddlewares(logger, internalConfig), formController)
	return router, fhir
}

func authorizedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT("Practitioner/12", testSecret, 1)
	require.NoError(t, err)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+token)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	return req
}

func serve(router http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	body := make(map[string]interface{})
	json.Unmarshal(rr.Body.Bytes(), &body)
	return rr, body
}

func TestFormRoutes_RequireToken(t *testing.T) {
	router, _ := newTestServer(t)

	rr, body := serve(router, httptest.NewRequest(constvars.MethodPost, "/api/v1/forms", strings.NewReader(`{"questionnaire_id":"intake"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
}

func TestFormRoutes_UnknownRoute(t *testing.T) {
	router, _ := newTestServer(t)

	rr, _ := serve(router, authorizedRequest(t, constvars.MethodGet, "/api/v2/forms", ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFormRoutes_SessionLifecycle(t *testing.T) {
	router, fhir := newTestServer(t)

	rr, body := serve(router, authorizedRequest(t, constvars.MethodPost, "/api/v1/forms", `{"questionnaire_id":"intake","subject":"Patient/7"}`))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	data := body["data"].(map[string]interface{})
	sessionID := data["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "intake", data["questionnaire_id"])

	base := "/api/v1/forms/" + sessionID

	rr, body = serve(router, authorizedRequest(t, constvars.MethodPut, base+"/controls/Patient.birthDate", `{"value":"1980-02-01"}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "1980-02-01", body["data"].(map[string]interface{})["value"])

	rr, body = serve(router, authorizedRequest(t, constvars.MethodPost, base+"/units/Patient.contact/records", `{"values":{"Patient.contact.name":"Ann"}}`))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	record := body["data"].(map[string]interface{})["record"].(map[string]interface{})
	recordID := record["id"].(string)
	assert.Equal(t, map[string]interface{}{"name": "Ann"}, record["value"])

	rr, body = serve(router, authorizedRequest(t, constvars.MethodPost, base+"/save", ""))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	fhir.mu.Lock()
	posted := fhir.posted
	fhir.mu.Unlock()
	assert.Equal(t, map[string]interface{}{"reference": "Questionnaire/intake"}, posted["questionnaire"])
	assert.Equal(t, map[string]interface{}{"reference": "Patient/7"}, posted["subject"])
	patient := posted["Patient"].(map[string]interface{})
	assert.Equal(t, "1980-02-01", patient["birthDate"])
	assert.Equal(t, []interface{}{map[string]interface{}{"name": "Ann"}}, patient["contact"])

	rr, _ = serve(router, authorizedRequest(t, constvars.MethodDelete, base+"/units/Patient.contact/records/"+recordID, ""))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, _ = serve(router, authorizedRequest(t, constvars.MethodPost, base+"/attachments/Patient.birthDate", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = serve(router, authorizedRequest(t, constvars.MethodDelete, base, ""))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = serve(router, authorizedRequest(t, constvars.MethodGet, base, ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
