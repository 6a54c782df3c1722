package factory

import (
	"github.com/bsmider/reactorgen/factory/model"
)

// Builtins declares the runtime capability types stub sources refer to, so
// subtype checks can resolve them without parsing the runtime package.
func Builtins() []*model.Class {
	base := model.Ref(AbstractStubType)
	void := func(name string, params ...model.Param) *model.Method {
		return &model.Method{Name: name, Params: params, Returns: model.Void}
	}
	return []*model.Class{
		{Name: AbstractStubType, Kind: model.KindStruct},
		{Name: AbstractFutureStubType, Kind: model.KindStruct, Supertypes: []model.TypeRef{base}},
		{Name: AbstractBlockingStubType, Kind: model.KindStruct, Supertypes: []model.TypeRef{base}},
		{Name: AbstractAsyncStubType, Kind: model.KindStruct, Supertypes: []model.TypeRef{base}},
		{
			Name: ResponseReceiverType,
			Kind: model.KindInterface,
			Methods: []*model.Method{
				void("OnNext", model.Param{Name: "value", Type: model.Ref("T")}),
				void("OnError", model.Param{Name: "err", Type: model.Ref("error")}),
				void("OnCompleted"),
			},
		},
	}
}

// withBuiltins adds every builtin the builder does not know yet.
func withBuiltins(b *model.Builder) error {
	for _, c := range Builtins() {
		if b.Lookup(c.Name) != nil {
			continue
		}
		if err := b.Add(c); err != nil {
			return err
		}
	}
	return nil
}
