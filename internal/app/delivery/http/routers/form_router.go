package routers

import (
	"fhirstarter-service/internal/app/delivery/http/controllers"
	"fhirstarter-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachFormRoutes(router chi.Router, middlewares *middlewares.Middlewares, formController *controllers.FormController) {
	router.Use(middlewares.Authenticate)

	router.Post("/", formController.StartForm)
	router.Get("/{session_id}", formController.FindForm)
	router.Delete("/{session_id}", formController.DiscardForm)
	router.Put("/{session_id}/controls/{control_id}", formController.ChangeValue)
	router.Post("/{session_id}/units/{unit_id}/records", formController.CommitRecord)
	router.Delete("/{session_id}/units/{unit_id}/records/{record_id}", formController.RemoveRecord)
	router.Post("/{session_id}/units/{unit_id}/reset", formController.ResetRecord)
	router.Post("/{session_id}/attachments/{control_id}", formController.UploadAttachment)
	router.Post("/{session_id}/save", formController.SaveAnswers)
}
