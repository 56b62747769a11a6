package subscription

import (
	"fmt"

	"github.com/AjayThorve/MRC/internal/tagalloc"
	"github.com/AjayThorve/MRC/types"
)

// tagOwner is implemented by a Service so the embedded taggedBase can
// call back into it on tag lifecycle events, mirroring the pure-virtual
// do_drop_tag hook of a tagged service base.
type tagOwner interface {
	doDropTag(tag types.Tag)
}

// taggedBase maps instance ids to the tags they own. It is not
// internally synchronized: the caller (Service) holds its own lock
// around every method here, avoiding nested lock ordering between many
// services sharing the dispatcher's single global mutex.
type taggedBase struct {
	serviceID uint32
	counter   tagalloc.Counter

	// instanceTags is a multimap: one instance id may own several tags
	// (one per role it has registered against).
	instanceTags map[types.InstanceID]map[types.Tag]struct{}

	owner tagOwner
}

func newTaggedBase(owner tagOwner) (taggedBase, error) {
	serviceID, err := tagalloc.NextServiceID()
	if err != nil {
		return taggedBase{}, err
	}
	return taggedBase{
		serviceID:    serviceID,
		instanceTags: make(map[types.InstanceID]map[types.Tag]struct{}),
		owner:        owner,
	}, nil
}

// registerInstanceID allocates a new tag for instance and records it.
func (b *taggedBase) registerInstanceID(instance types.InstanceID) (types.Tag, error) {
	tag, err := b.counter.Next(b.serviceID)
	if err != nil {
		return 0, err
	}
	tags, ok := b.instanceTags[instance]
	if !ok {
		tags = make(map[types.Tag]struct{})
		b.instanceTags[instance] = tags
	}
	tags[tag] = struct{}{}
	return tag, nil
}

// dropTag removes tag from whichever instance owns it and notifies the
// owner for cleanup. Returns ErrTagNotFound if no instance owns tag.
func (b *taggedBase) dropTag(tag types.Tag) error {
	for instance, tags := range b.instanceTags {
		if _, ok := tags[tag]; !ok {
			continue
		}
		delete(tags, tag)
		if len(tags) == 0 {
			delete(b.instanceTags, instance)
		}
		b.owner.doDropTag(tag)
		return nil
	}
	return fmt.Errorf("drop tag %v: %w", tag, types.ErrTagNotFound)
}

// dropInstance drops every tag owned by instance.
func (b *taggedBase) dropInstance(instance types.InstanceID) {
	tags := b.instanceTags[instance]
	delete(b.instanceTags, instance)
	for tag := range tags {
		b.owner.doDropTag(tag)
	}
}

// dropAll empties instanceTags, calling the owner's doDropTag for every
// tag that was live.
func (b *taggedBase) dropAll() {
	tags := b.instanceTags
	b.instanceTags = make(map[types.InstanceID]map[types.Tag]struct{})
	for _, instanceTags := range tags {
		for tag := range instanceTags {
			b.owner.doDropTag(tag)
		}
	}
}

// tagCount returns the total number of live tags across all instances.
func (b *taggedBase) tagCount() int {
	n := 0
	for _, tags := range b.instanceTags {
		n += len(tags)
	}
	return n
}

// tagCountForInstanceID returns the number of live tags owned by instance.
func (b *taggedBase) tagCountForInstanceID(instance types.InstanceID) int {
	return len(b.instanceTags[instance])
}
