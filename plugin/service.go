package plugin

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/leeforge/autumn/component"
	"github.com/leeforge/autumn/config"
	apperrors "github.com/leeforge/autumn/errors"
)

// ServiceTag is the struct tag read when filling a service.
//
//	type OrderService struct {
//		Redis  *redis.Client `autumn:"component"`
//		Audit  *AuditLog     `autumn:"component,optional"`
//		Web    web.Config    `autumn:"config"`
//		Limits Limits        `autumn:"config=orders.limits"`
//	}
const ServiceTag = "autumn"

type pendingService struct {
	typ    reflect.Type
	inject func(*Builder) (any, error)
}

type serviceTag struct {
	source   string
	prefix   string
	optional bool
}

func parseServiceTag(tag string) (serviceTag, error) {
	parts := strings.Split(tag, ",")
	var st serviceTag
	source, prefix, _ := strings.Cut(strings.TrimSpace(parts[0]), "=")
	switch source {
	case "component":
		if prefix != "" {
			return st, errors.New("component takes no argument")
		}
	case "config":
	default:
		return st, fmt.Errorf("unknown source %q", source)
	}
	st.source, st.prefix = source, prefix

	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "optional":
			st.optional = true
		default:
			return st, fmt.Errorf("unknown option %q", opt)
		}
	}
	return st, nil
}

// NewService allocates a T and fills its tagged fields from b without
// registering it. T must be a struct type.
func NewService[T any](b *Builder) (*T, error) {
	svc := new(T)
	if err := injectFields(b, reflect.ValueOf(svc).Elem()); err != nil {
		return nil, err
	}
	return svc, nil
}

func injectFields(b *Builder, v reflect.Value) error {
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return apperrors.New(apperrors.ErrorTypeInvalidComponent,
			fmt.Sprintf("service %s must be a struct", t))
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		raw, ok := field.Tag.Lookup(ServiceTag)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return fieldError(t, field, "is not exported")
		}
		tag, err := parseServiceTag(raw)
		if err != nil {
			return fieldError(t, field, err.Error())
		}

		switch tag.source {
		case "component":
			val, found := b.components.GetByType(field.Type)
			if !found {
				if tag.optional {
					continue
				}
				return apperrors.Wrap(&component.NotFoundError{Type: field.Type},
					fmt.Sprintf("inject %s.%s", t, field.Name))
			}
			v.Field(i).Set(reflect.ValueOf(val))
		case "config":
			if err := injectConfig(b.config, v.Field(i), tag.prefix); err != nil {
				return apperrors.Wrap(err, fmt.Sprintf("inject %s.%s", t, field.Name))
			}
		}
	}
	return nil
}

// injectConfig decodes a configuration section into dst, which may be a
// struct or a pointer to one. Without an explicit prefix the field type's
// ConfigPrefix names the section.
func injectConfig(store *config.Store, dst reflect.Value, prefix string) error {
	typ := dst.Type()
	isPtr := typ.Kind() == reflect.Pointer
	if isPtr {
		typ = typ.Elem()
	}
	target := reflect.New(typ)

	if prefix == "" {
		c, ok := target.Interface().(config.Configurable)
		if !ok {
			return apperrors.New(apperrors.ErrorTypeInvalidComponent,
				fmt.Sprintf("%s has no ConfigPrefix and the tag names no section", typ))
		}
		prefix = c.ConfigPrefix()
	}

	if err := store.Bind(prefix, target.Interface()); err != nil {
		return err
	}
	if isPtr {
		dst.Set(target)
	} else {
		dst.Set(target.Elem())
	}
	return nil
}

func fieldError(t reflect.Type, field reflect.StructField, msg string) error {
	return apperrors.New(apperrors.ErrorTypeInvalidComponent,
		fmt.Sprintf("service %s field %s: %s", t, field.Name, msg))
}
