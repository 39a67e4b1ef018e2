package validator

import (
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"

	"grievance/internal/domain"
)

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("priority", validatePriority)
	validate.RegisterValidation("status", validateStatus)
	validate.RegisterStructValidation(validateGeoLocation, domain.GeoLocation{})
}

func validatePriority(fl validator.FieldLevel) bool {
	return domain.Priority(fl.Field().String()).Valid()
}

func validateStatus(fl validator.FieldLevel) bool {
	return domain.Status(fl.Field().String()).Valid()
}

func validateGeoLocation(sl validator.StructLevel) {
	g, ok := sl.Current().Interface().(domain.GeoLocation)
	if !ok {
		return
	}
	lng, lat := g.Lng(), g.Lat()
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		sl.ReportError(reflect.ValueOf(lng), "Coordinates[0]", "lng", "lng", "")
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		sl.ReportError(reflect.ValueOf(lat), "Coordinates[1]", "lat", "lat", "")
	}
	if len(g.Address) > 500 || len(g.FormattedAddress) > 1000 {
		sl.ReportError(reflect.ValueOf(g.Address), "Address", "address", "max", "")
	}
}
