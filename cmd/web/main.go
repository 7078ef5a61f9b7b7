// @title           healthdir API
// @version         1.0
// @description     Public directory search over doctors, hospitals and departments.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "healthdir_backend/internal/app"

func main() {
	app.Run()
}
