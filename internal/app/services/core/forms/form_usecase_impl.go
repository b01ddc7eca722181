package forms

import (
	"context"
	"errors"
	"fhirstarter-service/internal/app/config"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/app/services/shared/events"
	"fhirstarter-service/internal/pkg/answers"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/dto/responses"
	"fhirstarter-service/internal/pkg/exceptions"
	"fhirstarter-service/internal/pkg/formrender"
	"fhirstarter-service/internal/pkg/questionnaire"
	"fhirstarter-service/internal/pkg/utils"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type formUsecase struct {
	QuestionnaireFhirClient       contracts.QuestionnaireFhirClient
	QuestionnaireAnswerFhirClient contracts.QuestionnaireAnswerFhirClient
	ValueSetUsecase               contracts.ValueSetUsecase
	AttachmentStorage             contracts.AttachmentStorage
	FormEventPublisher            contracts.FormEventPublisher
	LockerService                 contracts.LockerService
	InternalConfig                *config.InternalConfig
	Log                           *zap.Logger
	sessions                      *sessionStore
	now                           func() time.Time
	newRecordID                   func() string
}

// NewFormUsecase wires the form session service. attachmentStorage may be nil,
// which disables uploads.
func NewFormUsecase(
	questionnaireFhirClient contracts.QuestionnaireFhirClient,
	questionnaireAnswerFhirClient contracts.QuestionnaireAnswerFhirClient,
	valueSetUsecase contracts.ValueSetUsecase,
	attachmentStorage contracts.AttachmentStorage,
	formEventPublisher contracts.FormEventPublisher,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.FormUsecase {
	return &formUsecase{
		QuestionnaireFhirClient:       questionnaireFhirClient,
		QuestionnaireAnswerFhirClient: questionnaireAnswerFhirClient,
		ValueSetUsecase:               valueSetUsecase,
		AttachmentStorage:             attachmentStorage,
		FormEventPublisher:            formEventPublisher,
		LockerService:                 lockerService,
		InternalConfig:                internalConfig,
		Log:                           logger,
		sessions:                      newSessionStore(),
		now:                           time.Now,
		newRecordID:                   uuid.NewString,
	}
}

func (uc *formUsecase) sessionTTL() time.Duration {
	return time.Duration(uc.InternalConfig.Form.SessionTTLInMinutes) * time.Minute
}

func (uc *formUsecase) StartSession(ctx context.Context, request *requests.StartForm) (*responses.FormSession, error) {
	resource, err := uc.findQuestionnaire(ctx, request)
	if err != nil {
		return nil, err
	}

	catalog, err := uc.ValueSetUsecase.FindCatalog(ctx, resource.Group, request.ValueSets)
	if err != nil {
		return nil, err
	}

	doc := answers.Mapping{}
	if request.Answers != nil {
		doc = answers.FromMap(request.Answers)
	}

	sessionID := uuid.NewString()
	sessionLog := uc.Log.With(zap.String(constvars.LoggingSessionIDKey, sessionID))
	observer := events.NewSessionObserver(sessionID, uc.FormEventPublisher, sessionLog)

	renderer := formrender.NewRenderer(sessionLog, observer)
	renderer.NewID = uc.newRecordID
	form, err := renderer.Render(resource.Group, formrender.RootLayout, doc, catalog)
	if err != nil {
		return nil, exceptions.ErrFormRender(err, resource.ID)
	}
	if form.Root() == nil {
		return nil, exceptions.ErrFormRender(firstDefinitionError(form), resource.ID)
	}

	session := &formSession{
		ID:              sessionID,
		QuestionnaireID: resource.ID,
		Subject:         request.Subject,
		Form:            form,
		Observer:        observer,
		ExpiresAt:       uc.now().Add(uc.sessionTTL()),
	}
	uc.sessions.put(session)

	sessionLog.Info("formUsecase.StartSession rendered questionnaire",
		zap.String(constvars.LoggingQuestionnaireKey, resource.ID),
		zap.Int("controls", len(form.Controls())),
		zap.Int("units", len(form.Units())),
		zap.Int("definition_errors", len(form.Errors())),
	)

	session.mu.Lock()
	defer session.mu.Unlock()
	return buildSessionResponse(session)
}

func (uc *formUsecase) findQuestionnaire(ctx context.Context, request *requests.StartForm) (*questionnaire.Questionnaire, error) {
	switch {
	case request.Questionnaire != nil:
		if request.Questionnaire.Group == nil {
			return nil, exceptions.ErrFormRender(formrender.ErrNilQuestionnaire, request.Questionnaire.ID)
		}
		return request.Questionnaire, nil
	case request.QuestionnaireID != "":
		return uc.QuestionnaireFhirClient.FindQuestionnaireByID(ctx, request.QuestionnaireID)
	default:
		return uc.QuestionnaireFhirClient.FindProfileQuestionnaire(ctx, request.ProfileID)
	}
}

func firstDefinitionError(form *formrender.Form) error {
	for _, definitionError := range form.Errors() {
		if definitionError.Fatal() {
			return definitionError
		}
	}
	return formrender.ErrNilQuestionnaire
}

// acquire looks the session up, locks it and extends its lifetime. Callers
// must unlock the returned session.
func (uc *formUsecase) acquire(sessionID string) (*formSession, error) {
	now := uc.now()
	session, ok := uc.sessions.get(sessionID, now)
	if !ok {
		return nil, exceptions.ErrFormSessionNotFound(nil, sessionID)
	}
	session.mu.Lock()
	session.ExpiresAt = now.Add(uc.sessionTTL())
	return session, nil
}

func (uc *formUsecase) FindSession(ctx context.Context, sessionID string) (*responses.FormSession, error) {
	session, err := uc.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()
	return buildSessionResponse(session)
}

func (uc *formUsecase) ChangeValue(ctx context.Context, request *requests.ChangeValue) (*responses.ChangedValue, error) {
	session, err := uc.acquire(request.SessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	value, err := session.Form.Change(request.ControlID, request.Value)
	if err != nil {
		return nil, translateFormError(err, request.ControlID)
	}

	control, _ := session.Form.Control(request.ControlID)
	return &responses.ChangedValue{
		ControlID: control.ID,
		Path:      control.Path.String(),
		Value:     value,
	}, nil
}

func (uc *formUsecase) CommitRecord(ctx context.Context, request *requests.CommitRecord) (*responses.CommittedRecord, error) {
	session, err := uc.acquire(request.SessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	record, err := session.Form.Commit(request.UnitID, request.Values)
	if err != nil {
		return nil, translateFormError(err, request.UnitID)
	}

	records, err := session.Form.Records(request.UnitID)
	if err != nil {
		return nil, translateFormError(err, request.UnitID)
	}
	return &responses.CommittedRecord{
		UnitID:  request.UnitID,
		Record:  record,
		Records: records,
	}, nil
}

func (uc *formUsecase) ResetRecord(ctx context.Context, request *requests.ResetRecord) (*responses.FormUnit, error) {
	session, err := uc.acquire(request.SessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	err = session.Form.Reset(request.UnitID)
	if err != nil {
		return nil, translateFormError(err, request.UnitID)
	}
	unit, _ := session.Form.Unit(request.UnitID)
	return buildUnitResponse(unit), nil
}

func (uc *formUsecase) RemoveRecord(ctx context.Context, request *requests.RemoveRecord) (*responses.FormUnit, error) {
	session, err := uc.acquire(request.SessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	err = session.Form.Remove(request.UnitID, request.RecordID)
	if err != nil {
		if errors.Is(err, formrender.ErrRecordNotFound) {
			return nil, translateFormError(err, request.RecordID)
		}
		return nil, translateFormError(err, request.UnitID)
	}
	unit, _ := session.Form.Unit(request.UnitID)
	return buildUnitResponse(unit), nil
}

// UploadAttachment stores the file outside the session lock, then writes the
// attachment record through the control like any other change.
func (uc *formUsecase) UploadAttachment(ctx context.Context, request *requests.UploadAttachment) (*responses.Attachment, error) {
	if uc.AttachmentStorage == nil {
		return nil, exceptions.ErrMinioNotConfigured(nil)
	}

	maxSizeInMB := uc.InternalConfig.Form.AttachmentMaxSizeInMB
	if request.Size > int64(maxSizeInMB)<<20 {
		return nil, exceptions.ErrAttachmentTooLarge(nil, maxSizeInMB)
	}

	if err := uc.checkAttachmentControl(request.SessionID, request.ControlID); err != nil {
		return nil, err
	}

	objectName := utils.GenerateAttachmentObjectName(request.SessionID, request.ControlID, request.FileName)
	url, err := uc.AttachmentStorage.UploadAttachment(ctx, objectName, request.ContentType, request.Size, request.File)
	if err != nil {
		return nil, err
	}

	attachment := &responses.Attachment{
		ContentType: request.ContentType,
		Size:        request.Size,
		URL:         url,
		Title:       request.FileName,
	}

	session, err := uc.acquire(request.SessionID)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	_, err = session.Form.Change(request.ControlID, attachmentValue(attachment))
	if err != nil {
		return nil, translateFormError(err, request.ControlID)
	}

	uc.Log.Info("formUsecase.UploadAttachment stored attachment",
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingControlIDKey, request.ControlID),
		zap.String(constvars.LoggingObjectKey, objectName),
	)
	return attachment, nil
}

func (uc *formUsecase) checkAttachmentControl(sessionID, controlID string) error {
	session, err := uc.acquire(sessionID)
	if err != nil {
		return err
	}
	defer session.mu.Unlock()

	control, ok := session.Form.Control(controlID)
	if !ok {
		return exceptions.ErrFormControlNotFound(nil, controlID)
	}
	if control.Input != formrender.InputFile {
		return exceptions.ErrFormControlNotAttachment(nil, controlID)
	}
	return nil
}

func attachmentValue(attachment *responses.Attachment) map[string]interface{} {
	value := map[string]interface{}{
		"contentType": attachment.ContentType,
		"size":        float64(attachment.Size),
		"url":         attachment.URL,
	}
	if attachment.Title != "" {
		value["title"] = attachment.Title
	}
	return value
}

// saveLockExpiration bounds how long a crashed save can block the next one.
func (uc *formUsecase) saveLockExpiration() time.Duration {
	expiration := 2 * time.Duration(uc.InternalConfig.FHIR.RequestTimeoutInSeconds) * time.Second
	if expiration < 30*time.Second {
		expiration = 30 * time.Second
	}
	return expiration
}

// SaveAnswers posts a snapshot of the document, so the session stays writable
// while the FHIR server responds. Only one save per session runs at a time.
func (uc *formUsecase) SaveAnswers(ctx context.Context, sessionID string) (*responses.SavedAnswers, error) {
	lockKey := constvars.RedisKeyPrefixFormSave + sessionID
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, uc.saveLockExpiration())
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrFormSaveInProgress(nil, sessionID)
	}
	defer func() {
		if err := uc.LockerService.Unlock(context.Background(), lockKey, lockValue); err != nil {
			uc.Log.Warn("formUsecase.SaveAnswers failed to release save lock",
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.Error(err),
			)
		}
	}()

	session, err := uc.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	snapshot := snapshotDocument(session.Form.Document())
	questionnaireID := session.QuestionnaireID
	subject := session.Subject
	observer := session.Observer
	session.mu.Unlock()

	outcome, err := uc.QuestionnaireAnswerFhirClient.PostAnswers(ctx, questionnaireID, subject, snapshot)
	if err != nil {
		return nil, err
	}
	observer.AnswersSaved(questionnaireID)

	return &responses.SavedAnswers{
		SessionID: sessionID,
		Outcome:   outcome,
	}, nil
}

func (uc *formUsecase) DiscardSession(ctx context.Context, sessionID string) error {
	if !uc.sessions.remove(sessionID) {
		return exceptions.ErrFormSessionNotFound(nil, sessionID)
	}
	uc.Log.Info("formUsecase.DiscardSession discarded session",
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return nil
}

func (uc *formUsecase) SweepExpiredSessions(ctx context.Context) int {
	return uc.sessions.sweep(uc.now())
}

// translateFormError maps engine errors onto client facing errors. target is
// the id the caller addressed.
func translateFormError(err error, target string) error {
	switch {
	case errors.Is(err, formrender.ErrUnknownControl):
		return exceptions.ErrFormControlNotFound(err, target)
	case errors.Is(err, formrender.ErrUnknownUnit):
		return exceptions.ErrFormUnitNotFound(err, target)
	case errors.Is(err, formrender.ErrRecordNotFound):
		return exceptions.ErrFormRecordNotFound(err, target)
	case errors.Is(err, formrender.ErrNotAMember):
		return exceptions.ErrFormNotAMember(err, target)
	default:
		return exceptions.ErrFormAnswerPath(fmt.Errorf("%s: %w", target, err))
	}
}

// buildSessionResponse must run under the session lock. The node tree and
// the document are copied so the response can be encoded after unlocking.
func buildSessionResponse(session *formSession) (*responses.FormSession, error) {
	form, err := json.Marshal(session.Form.Root())
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	units := session.Form.Units()
	unitResponses := make([]responses.FormUnit, 0, len(units))
	for _, unit := range units {
		unitResponses = append(unitResponses, *buildUnitResponse(unit))
	}
	return &responses.FormSession{
		SessionID:       session.ID,
		QuestionnaireID: session.QuestionnaireID,
		Subject:         session.Subject,
		Form:            form,
		Units:           unitResponses,
		Answers:         snapshotDocument(session.Form.Document()),
		Errors:          session.Form.Errors(),
		ExpiresAt:       session.ExpiresAt,
	}, nil
}

func snapshotDocument(doc answers.Mapping) answers.Mapping {
	plain, _ := answers.ToInterface(doc).(map[string]interface{})
	return answers.FromMap(plain)
}

func buildUnitResponse(unit *formrender.Collector) *responses.FormUnit {
	return &responses.FormUnit{
		UnitID:  unit.UnitID(),
		Path:    unit.Path().String(),
		Members: unit.Members(),
		Records: unit.Records(),
	}
}
