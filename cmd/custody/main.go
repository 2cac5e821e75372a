// custody 托管金库服务命令行
package main

func main() {
	Execute()
}
