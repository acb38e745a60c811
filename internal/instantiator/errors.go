package instantiator

import "errors"

var (
	ErrUnknownPrefab           = errors.New("prefab is not in the catalog")
	ErrDuplicatePrefab         = errors.New("duplicate prefab name")
	ErrEmptyPrefabName         = errors.New("prefab name is empty")
	ErrUnknownComponent        = errors.New("unknown component type")
	ErrMissingComponentType    = errors.New("component type is missing")
	ErrEmptyPropertyKey        = errors.New("property key is empty")
	ErrUnsupportedPropertyType = errors.New("unsupported property type")
	ErrNoParent                = errors.New("prefab needs a parent object")
	ErrNoCatalog               = errors.New("instantiator has no prefab catalog")
	ErrDestroyed               = errors.New("instantiator is destroyed")
)
