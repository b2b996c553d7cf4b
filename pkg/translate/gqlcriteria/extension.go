package gqlcriteria

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"go.uber.org/zap"

	"github.com/rpattn/dddkit/pkg/domainerror"
)

// ErrorExtension is a gqlgen handler extension that reports domain errors
// returned by resolvers with their codes and parameters as extensions. Every
// accumulated failure becomes its own GraphQL error.
type ErrorExtension struct {
	Logger *zap.Logger
}

var (
	_ graphql.HandlerExtension = (*ErrorExtension)(nil)
	_ graphql.FieldInterceptor = (*ErrorExtension)(nil)
)

// ExtensionName implements graphql.HandlerExtension
func (e *ErrorExtension) ExtensionName() string {
	return "CriteriaErrors"
}

// Validate implements graphql.HandlerExtension
func (e *ErrorExtension) Validate(schema graphql.ExecutableSchema) error {
	return nil
}

// InterceptField converts resolver errors carrying a domain code.
func (e *ErrorExtension) InterceptField(ctx context.Context, next graphql.Resolver) (any, error) {
	start := time.Now()
	res, err := next(ctx)
	if _, ok := domainerror.CodeOf(err); !ok {
		return res, err
	}

	list := ToErrors(err)
	if fc := graphql.GetFieldContext(ctx); fc != nil && e.Logger != nil {
		e.Logger.Debug("resolver rejected criteria",
			zap.String("object", fc.Object),
			zap.String("field", fc.Field.Name),
			zap.Int("errors", len(list)),
			zap.Duration("took", time.Since(start)),
		)
	}
	for _, extra := range list[1:] {
		graphql.AddError(ctx, extra)
	}
	return res, list[0]
}
