package form

import "errors"

var (
	// ErrInvalidAction reports an action outside create/store/update/destroy.
	ErrInvalidAction = errors.New("form: incorrect action provided")
	// ErrUnknownField reports a column missing from the template.
	ErrUnknownField = errors.New("form: field is missing from the template")
	// ErrMissingMethod reports a Build without a method.
	ErrMissingMethod = errors.New("form: the 'method' is required")
	// ErrInvalidMethod reports a method outside post/put/patch.
	ErrInvalidMethod = errors.New("form: the 'method' is incorrect")
	// ErrMissingEntity reports a put/patch form without a bound entity.
	ErrMissingEntity = errors.New("form: the bound entity is missing")
	// ErrMissingPrefix reports an action needing a synthesized route while no
	// prefix was set.
	ErrMissingPrefix = errors.New("form: prefix is required in order to generate the routes")
	// ErrRouteAccessDenied is returned by SetRoute in strict access mode.
	ErrRouteAccessDenied = errors.New("form: route access denied")
	// ErrBuilderConsumed reports use of a builder after Build.
	ErrBuilderConsumed = errors.New("form: builder already built")
)
