/*
Package registry resolves per-role association storage strategies and holds
the named value codecs.

Association storage mapping:
Resolution order is role override, entity override, global default, backend
default:

	mapping, err := registry.NewMapping(registry.MappingConfig{
	    Default:        storagemodels.AssociationDocument,
	    PerEntity:      map[string]storagemodels.AssociationStorageType{"Person": storagemodels.InEntity},
	    PerAssociation: map[string]storagemodels.AssociationStorageType{"Person.cars": storagemodels.AssociationDocumentPerAssociation},
	}, dialect)
	actx := mapping.Context(assocKey)

NewMapping rejects storage types the dialect does not support with a
MappingConfigurationError. The first resolution of a role is memoised.

Codec Registry:
Maps codec names to codecs:

	c, err := registry.GetCodec("iso8601_datetime")

The built-in codecs are registered at init time. RegisterCodec panics on
duplicate names and should be called during initialization.
*/
package registry
