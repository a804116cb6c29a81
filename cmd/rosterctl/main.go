// rosterctl 是值班排班引擎的命令行前端：离线读取员工名单，生成一个
// 月度排班表，并可选导出 iCalendar / 电子表格文件，不依赖 HTTP 服务
// 或数据库。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "rosterctl",
		Short: "RosterOps 值班排班命令行工具",
		Long:  "rosterctl 离线生成、查看并导出两地值班月度排班表，不需要运行 rosterops 服务。",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newExportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
