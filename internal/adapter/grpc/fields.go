package grpc

import (
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/sdl-backend/internal/domain"
)

// dateLayout is the wire format of calendar dates such as due dates
const dateLayout = "2006-01-02"

// requiredString reads a non-empty string field
func requiredString(req *structpb.Struct, name string) (string, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}

	str, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "field %q must be a string", name)
	}
	if str.StringValue == "" {
		return "", status.Errorf(codes.InvalidArgument, "field %q must not be empty", name)
	}
	return str.StringValue, nil
}

// optionalString reads a string field, returning "" when it is absent
func optionalString(req *structpb.Struct, name string) (string, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return "", nil
	}
	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}

	str, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "field %q must be a string", name)
	}
	return str.StringValue, nil
}

// optionalInt reads an integral number field, returning fallback when it is absent
// JSON numbers arrive as float64, so fractional or out-of-range values are rejected
func optionalInt(req *structpb.Struct, name string, fallback int64) (int64, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return fallback, nil
	}
	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return fallback, nil
	}

	num, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "field %q must be a number", name)
	}

	f := num.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "field %q must be an integer, got %v", name, f)
	}
	return int64(f), nil
}

// requiredInt reads an integral number field that must be present
func requiredInt(req *structpb.Struct, name string) (int64, error) {
	if _, ok := req.GetFields()[name]; !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	return optionalInt(req, name, 0)
}

// optionalBool reads a bool field, returning false when it is absent
func optionalBool(req *structpb.Struct, name string) (bool, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return false, nil
	}

	b, ok := value.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, status.Errorf(codes.InvalidArgument, "field %q must be a bool", name)
	}
	return b.BoolValue, nil
}

// scaleField reads the optional "scale" field, defaulting to the server scale
func scaleField(req *structpb.Struct, defaultScale int32) (int32, error) {
	scale, err := optionalInt(req, "scale", int64(defaultScale))
	if err != nil {
		return 0, err
	}
	if scale < 0 {
		return 0, status.Errorf(codes.InvalidArgument, "field \"scale\" must not be negative, got %d", scale)
	}
	if scale > int64(domain.MaxScale) {
		return 0, status.Errorf(codes.InvalidArgument, "field \"scale\" must not exceed %d, got %d", domain.MaxScale, scale)
	}
	return int32(scale), nil
}

// optionalDate reads a YYYY-MM-DD field as a UTC date, returning the zero time when it is absent
func optionalDate(req *structpb.Struct, name string) (time.Time, error) {
	raw, err := optionalString(req, name)
	if err != nil || raw == "" {
		return time.Time{}, err
	}

	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "field %q must be a YYYY-MM-DD date, got %q", name, raw)
	}
	return date, nil
}

// structList reads a list whose items are all objects
func structList(req *structpb.Struct, name string) ([]*structpb.Struct, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return nil, nil
	}

	list, ok := value.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "field %q must be a list", name)
	}

	items := make([]*structpb.Struct, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		obj, ok := item.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "%s[%d] must be an object", name, i)
		}
		items = append(items, obj.StructValue)
	}
	return items, nil
}
