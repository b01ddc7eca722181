package controllers

import (
	"context"
	"errors"
	"fhirstarter-service/internal/app/config"
	"fhirstarter-service/internal/app/contracts"
	"fhirstarter-service/internal/pkg/constvars"
	"fhirstarter-service/internal/pkg/dto/requests"
	"fhirstarter-service/internal/pkg/exceptions"
	"fhirstarter-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type FormController struct {
	Log            *zap.Logger
	FormUsecase    contracts.FormUsecase
	InternalConfig *config.InternalConfig
}

var (
	formControllerInstance *FormController
	onceFormController     sync.Once
)

func NewFormController(logger *zap.Logger, formUsecase contracts.FormUsecase, internalConfig *config.InternalConfig) *FormController {
	onceFormController.Do(func() {
		instance := &FormController{
			Log:            logger,
			FormUsecase:    formUsecase,
			InternalConfig: internalConfig,
		}
		formControllerInstance = instance
	})
	return formControllerInstance
}

func (ctrl *FormController) requestTimeout() time.Duration {
	if ctrl.InternalConfig == nil || ctrl.InternalConfig.App.RequestTimeoutInSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func (ctrl *FormController) requestID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("FormController." + operation + " requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func (ctrl *FormController) fail(w http.ResponseWriter, requestID, operation string, err error) {
	ctrl.Log.Error("FormController."+operation+" failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		var customErr *exceptions.CustomError
		if !errors.As(err, &customErr) {
			err = exceptions.ErrServerDeadlineExceeded(err)
		}
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

func (ctrl *FormController) validateSessionID(w http.ResponseWriter, requestID, operation, sessionID string) bool {
	err := utils.ValidateStruct(&requests.FindForm{SessionID: sessionID})
	if err != nil {
		ctrl.fail(w, requestID, operation, exceptions.ErrURLParamIDValidation(err, constvars.URLParamSessionID))
		return false
	}
	return true
}

func (ctrl *FormController) StartForm(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "StartForm")
	if !ok {
		return
	}
	ctrl.Log.Info("FormController.StartForm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.StartForm)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		ctrl.fail(w, requestID, "StartForm", exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.fail(w, requestID, "StartForm", exceptions.ErrInputValidation(err))
		return
	}

	if claims, ok := r.Context().Value(constvars.CONTEXT_JWT_CLAIMS_KEY).(*jwt.RegisteredClaims); ok {
		ctrl.Log.Info("FormController.StartForm authenticated",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSubjectKey, claims.Subject),
		)
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	response, err := ctrl.FormUsecase.StartSession(ctx, request)
	if err != nil {
		ctrl.fail(w, requestID, "StartForm", err)
		return
	}

	ctrl.Log.Info("FormController.StartForm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, response.SessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.FormStartedSuccessMessage, response)
}

func (ctrl *FormController) FindForm(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "FindForm")
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	ctrl.Log.Info("FormController.FindForm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	if !ctrl.validateSessionID(w, requestID, "FindForm", sessionID) {
		return
	}

	response, err := ctrl.FormUsecase.FindSession(r.Context(), sessionID)
	if err != nil {
		ctrl.fail(w, requestID, "FindForm", err)
		return
	}

	ctrl.Log.Info("FormController.FindForm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FormFoundSuccessMessage, response)
}

func (ctrl *FormController) ChangeValue(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "ChangeValue")
	if !ok {
		return
	}
	ctrl.Log.Info("FormController.ChangeValue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.ChangeValue)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		ctrl.fail(w, requestID, "ChangeValue", exceptions.ErrCannotParseJSON(err))
		return
	}
	request.SessionID = chi.URLParam(r, constvars.URLParamSessionID)
	request.ControlID = chi.URLParam(r, constvars.URLParamControlID)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.fail(w, requestID, "ChangeValue", exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.FormUsecase.ChangeValue(r.Context(), request)
	if err != nil {
		ctrl.fail(w, requestID, "ChangeValue", err)
		return
	}

	ctrl.Log.Info("FormController.ChangeValue succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingControlIDKey, request.ControlID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FormValueChangedSuccessMessage, response)
}

func (ctrl *FormController) CommitRecord(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "CommitRecord")
	if !ok {
		return
	}
	ctrl.Log.Info("FormController.CommitRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CommitRecord)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		ctrl.fail(w, requestID, "CommitRecord", exceptions.ErrCannotParseJSON(err))
		return
	}
	request.SessionID = chi.URLParam(r, constvars.URLParamSessionID)
	request.UnitID = chi.URLParam(r, constvars.URLParamUnitID)

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.fail(w, requestID, "CommitRecord", exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.FormUsecase.CommitRecord(r.Context(), request)
	if err != nil {
		ctrl.fail(w, requestID, "CommitRecord", err)
		return
	}

	ctrl.Log.Info("FormController.CommitRecord succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUnitIDKey, request.UnitID),
		zap.String(constvars.LoggingRecordIDKey, response.Record.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.FormRecordAddedSuccessMessage, response)
}

func (ctrl *FormController) ResetRecord(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "ResetRecord")
	if !ok {
		return
	}
	request := &requests.ResetRecord{
		SessionID: chi.URLParam(r, constvars.URLParamSessionID),
		UnitID:    chi.URLParam(r, constvars.URLParamUnitID),
	}
	ctrl.Log.Info("FormController.ResetRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUnitIDKey, request.UnitID),
	)

	err := utils.ValidateStruct(request)
	if err != nil {
		ctrl.fail(w, requestID, "ResetRecord", exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.FormUsecase.ResetRecord(r.Context(), request)
	if err != nil {
		ctrl.fail(w, requestID, "ResetRecord", err)
		return
	}

	ctrl.Log.Info("FormController.ResetRecord succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FormUnitResetSuccessMessage, response)
}

func (ctrl *FormController) RemoveRecord(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "RemoveRecord")
	if !ok {
		return
	}
	request := &requests.RemoveRecord{
		SessionID: chi.URLParam(r, constvars.URLParamSessionID),
		UnitID:    chi.URLParam(r, constvars.URLParamUnitID),
		RecordID:  chi.URLParam(r, constvars.URLParamRecordID),
	}
	ctrl.Log.Info("FormController.RemoveRecord called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUnitIDKey, request.UnitID),
		zap.String(constvars.LoggingRecordIDKey, request.RecordID),
	)

	err := utils.ValidateStruct(request)
	if err != nil {
		ctrl.fail(w, requestID, "RemoveRecord", exceptions.ErrInputValidation(err))
		return
	}

	response, err := ctrl.FormUsecase.RemoveRecord(r.Context(), request)
	if err != nil {
		ctrl.fail(w, requestID, "RemoveRecord", err)
		return
	}

	ctrl.Log.Info("FormController.RemoveRecord succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FormRecordRemovedSuccessMessage, response)
}

func (ctrl *FormController) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "UploadAttachment")
	if !ok {
		return
	}
	ctrl.Log.Info("FormController.UploadAttachment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	maxMemory := int64(ctrl.InternalConfig.Form.AttachmentMaxSizeInMB) << 20
	err := r.ParseMultipartForm(maxMemory)
	if err != nil {
		ctrl.fail(w, requestID, "UploadAttachment", exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	file, fileHeader, err := r.FormFile(constvars.FormFieldAttachment)
	if err != nil {
		ctrl.fail(w, requestID, "UploadAttachment", exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	request := &requests.UploadAttachment{
		SessionID:   chi.URLParam(r, constvars.URLParamSessionID),
		ControlID:   chi.URLParam(r, constvars.URLParamControlID),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(constvars.HeaderContentType),
		Size:        fileHeader.Size,
		File:        file,
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		ctrl.fail(w, requestID, "UploadAttachment", exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	response, err := ctrl.FormUsecase.UploadAttachment(ctx, request)
	if err != nil {
		ctrl.fail(w, requestID, "UploadAttachment", err)
		return
	}

	ctrl.Log.Info("FormController.UploadAttachment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingControlIDKey, request.ControlID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.FormAttachmentSuccessMessage, response)
}

func (ctrl *FormController) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "SaveAnswers")
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	ctrl.Log.Info("FormController.SaveAnswers called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	if !ctrl.validateSessionID(w, requestID, "SaveAnswers", sessionID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	response, err := ctrl.FormUsecase.SaveAnswers(ctx, sessionID)
	if err != nil {
		ctrl.fail(w, requestID, "SaveAnswers", err)
		return
	}

	ctrl.Log.Info("FormController.SaveAnswers succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FormSavedSuccessMessage, response)
}

func (ctrl *FormController) DiscardForm(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestID(w, r, "DiscardForm")
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	ctrl.Log.Info("FormController.DiscardForm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	if !ctrl.validateSessionID(w, requestID, "DiscardForm", sessionID) {
		return
	}

	err := ctrl.FormUsecase.DiscardSession(r.Context(), sessionID)
	if err != nil {
		ctrl.fail(w, requestID, "DiscardForm", err)
		return
	}

	ctrl.Log.Info("FormController.DiscardForm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FormDiscardedSuccessMessage, nil)
}
