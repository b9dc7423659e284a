// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

// Id identifies an entry in the issue catalog.
type Id int

const (
	StoreUnreadableId Id = iota + 1
	DanglingActivePointerId
	NoConfigurationsId
)

// MarkdownMsg is the markdown body of an issue page.
type MarkdownMsg string

// Issue is a long-form help page shown for failures where a one-line error
// is not enough to get the user unstuck.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue's markdown for the terminal using the given
// glamour style path ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// render is a seam for tests; glamour output depends on the environment.
var render = glamour.Render

var (
	storeUnreadableIssue = &Issue{
		id: StoreUnreadableId,
		mdMsg: `
# Cannot read the configuration store

stencil keeps its configurations under ~/.stencil/configs but the directory
could not be read.

## Things you can try
- Check the directory exists and is readable:
~~~
$ ls -la ~/.stencil/configs
~~~
- Recreate it and start over:
~~~
$ mkdir -p ~/.stencil/configs
~~~`,
	}

	danglingActivePointerIssue = &Issue{
		id: DanglingActivePointerId,
		mdMsg: `
# Active configuration no longer exists

The active pointer names a configuration whose file has been removed from
~/.stencil/configs.

## Things you can try
- Select another configuration:
~~~
$ stencil config use <name>
~~~
- Or list what is still there:
~~~
$ stencil config list
~~~`,
	}

	noConfigurationsIssue = &Issue{
		id: NoConfigurationsId,
		mdMsg: `
# No configurations yet

There is nothing in the store to operate on.

## Create your first configuration
~~~
$ stencil config create
~~~`,
	}

	catalog = map[Id]*Issue{
		StoreUnreadableId:       storeUnreadableIssue,
		DanglingActivePointerId: danglingActivePointerIssue,
		NoConfigurationsId:      noConfigurationsIssue,
	}
)

// Get returns the catalog entry for id, or nil if the id is unknown.
func Get(id Id) *Issue {
	return catalog[id]
}
