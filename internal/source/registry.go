package source

import "github.com/lukman83/catalog-scrap/internal/platform"

// Register makes both document sources selectable through platform.Get.
func Register(httpOpts HTTPOptions, headlessOpts HeadlessOptions) {
	platform.Register("http", func() (platform.DocumentSource, error) {
		return NewHTTPSource(httpOpts), nil
	})
	platform.Register("headless", func() (platform.DocumentSource, error) {
		return NewHeadlessSource(headlessOpts), nil
	})
}
