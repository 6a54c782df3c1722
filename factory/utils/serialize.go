package utils

import (
	"reflect"

	"google.golang.org/protobuf/proto"
)

func SerializeMessage[T proto.Message](msg T) ([]byte, error) {
	return MarshalDeterministic(msg)
}

// converts bytes to a type
func BytesToType[Type proto.Message](payload []byte) (Type, error) {
	msg := reflect.New(reflect.TypeOf(*new(Type)).Elem()).Interface().(Type)

	if err := proto.Unmarshal(payload, msg); err != nil {
		var zero Type
		return zero, err
	}
	return msg, nil
}
