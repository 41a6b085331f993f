package parable

import (
	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound      = errors.New("key not found in association list")
	ErrInvalidAssocList = errors.New("invalid association list")
)

// Assoc looks up key in the association list l, a list of alternating keys
// and values. It fails with ErrInvalidAssocList when l is not such a list
// and with ErrKeyNotFound when the key is absent.
func Assoc(l Value, key Value) (Value, error) {
	list, ok := l.(*List)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidAssocList, "got a %s", l.Kind())
	}
	if len(list.Items)%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidAssocList, "odd length %d", len(list.Items))
	}
	for i := 0; i < len(list.Items); i += 2 {
		if Equal(list.Items[i], key) {
			return list.Items[i+1], nil
		}
	}
	return nil, errors.Wrapf(ErrKeyNotFound, "key %s", Pprint(key))
}
