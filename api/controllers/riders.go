package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/bicisena/bicisena-backend/api/responses"
	"github.com/bicisena/bicisena-backend/api/validators"
	"github.com/bicisena/bicisena-backend/internal/riders"
	"github.com/bicisena/bicisena-backend/pkg/config"
	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
	"github.com/bicisena/bicisena-backend/pkg/logger"
)

const maxTextField = 256

// RiderRegister accepts the multipart registration form.
func RiderRegister(svc riders.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rider service unavailable"))
			return
		}

		if err := validators.ParseMultipartForm(w, r, media.MaxUploadBytes()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		input := riders.RegisterInput{
			Nombre:     validators.FormValue(r, "nombre", maxTextField),
			Cedula:     validators.FormValue(r, "cedula", maxTextField),
			Telefono:   validators.FormValue(r, "telefono", maxTextField),
			Correo:     validators.FormValue(r, "correo", maxTextField),
			Contrasena: rawFormValue(r, "contrasena"),
			Codigo:     validators.FormValue(r, "codigo", maxTextField),
		}

		var err error
		if input.FotoBici, err = validators.ReadFormFile(r, "foto_bici", media.MaxPhotoBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.FotoUsuario, err = validators.ReadFormFile(r, "foto_usuario", media.MaxPhotoBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// rawFormValue keeps the password byte-exact.
func rawFormValue(r *http.Request, field string) string {
	if r.MultipartForm == nil {
		return ""
	}
	if values := r.MultipartForm.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func RiderLogin(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rider service unavailable"))
			return
		}

		var body riders.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RiderScan resolves a scanned QR payload back to the rider's identity.
func RiderScan(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rider service unavailable"))
			return
		}

		result, err := svc.ScanByCode(r.Context(), codigoParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// codigoParam returns the {codigo} path segment. chi matches on RawPath when
// the request carries escaped bytes, so the segment is unescaped in that case.
func codigoParam(r *http.Request) string {
	raw := chi.URLParam(r, "codigo")
	if r.URL.RawPath == "" {
		return raw
	}
	if codigo, err := url.PathUnescape(raw); err == nil {
		return codigo
	}
	return raw
}
